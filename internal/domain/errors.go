package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrInvalidState            = errors.New("estado de flujo inválido")
	ErrForbidden               = errors.New("acceso denegado")
	ErrValidation              = errors.New("validación fallida")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrDepartmentNotConfigured = errors.New("departamento no configurado")
)

// Kind clasifica un fallo de dominio para que el transporte lo traduzca sin mirar mensajes.
type Kind string

const (
	KindNotFound                Kind = "NOT_FOUND"
	KindConflict                Kind = "CONFLICT"
	KindInvalidState            Kind = "INVALID_STATE"
	KindForbidden               Kind = "FORBIDDEN"
	KindValidation              Kind = "VALIDATION_FAILED"
	KindUnauthorized            Kind = "UNAUTHORIZED"
	KindDepartmentNotConfigured Kind = "DEPARTMENT_NOT_CONFIGURED"
)

var sentinelByKind = map[Kind]error{
	KindNotFound:                ErrNotFound,
	KindConflict:                ErrConflict,
	KindInvalidState:            ErrInvalidState,
	KindForbidden:               ErrForbidden,
	KindValidation:              ErrValidation,
	KindUnauthorized:            ErrUnauthorized,
	KindDepartmentNotConfigured: ErrDepartmentNotConfigured,
}

// Error es el fallo estructurado que devuelven los casos de uso.
// MissingFields y MissingDocuments sólo se llenan en fallos de validación.
type Error struct {
	Kind             Kind
	Message          string
	MissingFields    []string
	MissingDocuments []string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if s, ok := sentinelByKind[e.Kind]; ok {
		return s.Error()
	}
	return string(e.Kind)
}

// Is permite errors.Is(err, domain.ErrConflict) sobre un *Error de tipo Conflict.
func (e *Error) Is(target error) bool {
	s, ok := sentinelByKind[e.Kind]
	return ok && s == target
}

// NotFound construye un *Error de tipo NotFound.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Conflict construye un *Error de tipo Conflict.
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// InvalidState construye un *Error de tipo InvalidState.
func InvalidState(msg string) *Error { return &Error{Kind: KindInvalidState, Message: msg} }

// Forbidden construye un *Error de tipo Forbidden.
func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

// Unauthorized construye un *Error de tipo Unauthorized.
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

// DepartmentNotConfigured indica que falta la fila del departamento (error de administración).
func DepartmentNotConfigured(name string) *Error {
	return &Error{
		Kind:    KindDepartmentNotConfigured,
		Message: name + " department not found. Please contact administrator.",
	}
}

// Validation construye un fallo de validación con las listas de faltantes.
func Validation(msg string, missingFields, missingDocuments []string) *Error {
	return &Error{
		Kind:             KindValidation,
		Message:          msg,
		MissingFields:    missingFields,
		MissingDocuments: missingDocuments,
	}
}

// KindOf devuelve el Kind de err o "" si no es un fallo de dominio.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	for k, s := range sentinelByKind {
		if errors.Is(err, s) {
			return k
		}
	}
	return ""
}

// FieldErrors acumula errores de validación de campos para reportarlos juntos.
type FieldErrors struct {
	fields   []string
	messages []string
}

// Add registra un campo inválido con su mensaje.
func (f *FieldErrors) Add(field, msg string) {
	f.fields = append(f.fields, field)
	f.messages = append(f.messages, msg)
}

// Empty informa si no hay errores acumulados.
func (f *FieldErrors) Empty() bool { return len(f.fields) == 0 }

// Err devuelve nil o un *Error de validación con todos los campos.
func (f *FieldErrors) Err() error {
	if f.Empty() {
		return nil
	}
	return Validation(strings.Join(f.messages, "; "), f.fields, nil)
}
