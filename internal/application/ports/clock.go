package ports

import "time"

// Clock fuente de tiempo inyectable; las pruebas usan un reloj fijo.
type Clock interface {
	Now() time.Time
}

// SystemClock reloj real en UTC.
type SystemClock struct{}

// Now hora actual en UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock reloj detenido en T.
type FixedClock struct{ T time.Time }

// Now devuelve siempre T.
func (f FixedClock) Now() time.Time { return f.T }
