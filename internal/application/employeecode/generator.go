// Package employeecode asigna códigos de empleado JP-EMP-<año>-<secuencia de 6 dígitos>.
// La secuencia es por año calendario y nunca reutiliza un valor ya persistido.
package employeecode

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
	"github.com/jhoicas/hr-onboarding-api/pkg/logger"
)

const (
	codePrefix = "JP-EMP-"
	seqDigits  = 6
	maxSeq     = 999999

	// DefaultMaxAttempts tope de reintentos por colisión.
	DefaultMaxAttempts = 1000000
)

// ErrExhausted se agotaron los reintentos o la secuencia del año.
var ErrExhausted = errors.New("employeecode: no hay códigos disponibles")

// Store consulta de códigos ya emitidos. PersonRepository lo satisface.
type Store interface {
	LatestEmployeeCode(ctx context.Context, prefix string) (string, error)
	EmployeeCodeExists(ctx context.Context, code string) (bool, error)
}

// Clock fuente de tiempo; el año del código sale de aquí.
type Clock interface {
	Now() time.Time
}

// CommitFunc persiste el código candidato. Si el almacenamiento reporta un duplicado
// de employeeCode el generador prueba con la siguiente secuencia; cualquier otro
// error corta la asignación.
type CommitFunc = func(code string) error

// Generator asignador de secuencias.
type Generator struct {
	store       Store
	clock       Clock
	maxAttempts int
	log         *logger.Logger
}

// New construye el generador. maxAttempts <= 0 usa DefaultMaxAttempts.
func New(store Store, clock Clock, maxAttempts int, log *logger.Logger) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{store: store, clock: clock, maxAttempts: maxAttempts, log: log}
}

// Format arma el código con la secuencia rellenada a 6 dígitos.
func Format(year, seq int) string {
	return fmt.Sprintf("%s%d-%0*d", codePrefix, year, seqDigits, seq)
}

// Prefix prefijo de los códigos del año.
func Prefix(year int) string {
	return fmt.Sprintf("%s%d-", codePrefix, year)
}

// Parse extrae año y secuencia; ok=false si el código no tiene el formato esperado.
func Parse(code string) (year, seq int, ok bool) {
	rest, found := strings.CutPrefix(code, codePrefix)
	if !found {
		return 0, 0, false
	}
	y, s, found := strings.Cut(rest, "-")
	if !found || len(y) != 4 || len(s) != seqDigits {
		return 0, 0, false
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, false
	}
	seq, err = strconv.Atoi(s)
	if err != nil || seq < 0 {
		return 0, 0, false
	}
	return year, seq, true
}

// Allocate calcula el siguiente código del año en curso y lo entrega a commit.
// Antes de cada intento verifica que el código no exista; ante colisión (en la
// verificación o en el commit) avanza la secuencia. Devuelve el código persistido.
func (g *Generator) Allocate(ctx context.Context, commit CommitFunc) (string, error) {
	year := g.clock.Now().Year()
	seq, err := g.next(ctx, year)
	if err != nil {
		return "", err
	}
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if seq > maxSeq {
			break
		}
		code := Format(year, seq)
		exists, err := g.store.EmployeeCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("employeecode: verificar %s: %w", code, err)
		}
		if exists {
			g.log.Debug().Str("code", code).Int("attempt", attempt).Msg("código ya emitido, se avanza la secuencia")
			seq++
			continue
		}
		err = commit(code)
		if err == nil {
			return code, nil
		}
		if !repository.IsDuplicate(err, repository.FieldEmployeeCode) {
			return "", err
		}
		g.log.Warn().Str("code", code).Int("attempt", attempt).Msg("colisión de código de empleado al persistir")
		// otra asignación ganó la carrera; se retoma desde el último emitido
		latest, err := g.next(ctx, year)
		if err != nil {
			return "", err
		}
		seq = max(seq+1, latest)
	}
	g.log.Error().Int("year", year).Int("max_attempts", g.maxAttempts).Msg("secuencia de códigos agotada")
	return "", fmt.Errorf("%w para %d tras %d intentos", ErrExhausted, year, g.maxAttempts)
}

// next siguiente secuencia a partir del mayor código emitido en el año.
func (g *Generator) next(ctx context.Context, year int) (int, error) {
	latest, err := g.store.LatestEmployeeCode(ctx, Prefix(year))
	if err != nil {
		return 0, fmt.Errorf("employeecode: último código de %d: %w", year, err)
	}
	if latest == "" {
		return 1, nil
	}
	_, seq, ok := Parse(latest)
	if !ok {
		return 0, fmt.Errorf("employeecode: código existente con formato inválido %q", latest)
	}
	return seq + 1, nil
}
