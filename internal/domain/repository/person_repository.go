package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
)

// Campos con índice único en persons.
const (
	FieldEmail         = "email"
	FieldPrimaryMobile = "primaryMobile"
	FieldEmployeeCode  = "employeeCode"
)

// ErrStaleWrite la escritura condicional no aplicó: el estado o la versión cambiaron
// desde la lectura.
var ErrStaleWrite = errors.New("persona modificada concurrentemente")

// DuplicateError violación de índice único detectada por el almacenamiento.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("valor duplicado en %s", e.Field)
}

// IsDuplicate informa si err es una violación de unicidad sobre field ("" = cualquiera).
func IsDuplicate(err error, field string) bool {
	var de *DuplicateError
	if !errors.As(err, &de) {
		return false
	}
	return field == "" || de.Field == field
}

// PersonFilter filtros del listado de personas.
type PersonFilter struct {
	Status             entity.PersonStatus
	Category           entity.Category
	OwningDepartmentID string
	Limit              int
	Offset             int
}

// PersonRepository puerto de persistencia para Person (DIP).
// La unicidad de email (sin distinción de mayúsculas), móvil principal y código de
// empleado la garantiza el almacenamiento y se reporta como *DuplicateError.
type PersonRepository interface {
	Create(ctx context.Context, p *entity.Person) error
	GetByID(ctx context.Context, id string) (*entity.Person, error)
	GetByEmail(ctx context.Context, email string) (*entity.Person, error)
	GetByPrimaryMobile(ctx context.Context, mobile string) (*entity.Person, error)
	// UpdateIfStatus escribe la persona completa (estado, sub-documentos e historial) en
	// una sola operación atómica, sólo si el estado persistido es expected y la versión
	// coincide con p.Version. Devuelve ErrStaleWrite si no aplicó.
	UpdateIfStatus(ctx context.Context, p *entity.Person, expected entity.PersonStatus) error
	List(ctx context.Context, f PersonFilter) ([]*entity.Person, int, error)
	// LatestEmployeeCode mayor código con el prefijo dado ("" si no hay).
	LatestEmployeeCode(ctx context.Context, prefix string) (string, error)
	EmployeeCodeExists(ctx context.Context, code string) (bool, error)
}
