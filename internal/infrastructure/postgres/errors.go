package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

const (
	uniqueViolationCode = "23505"
	checkViolationCode  = "23514"

	// levantado por el trigger persons_employee_code_lock
	employeeCodeLockConstraint = "persons_employee_code_immutable"
)

// uniqueFields índice único → campo reportado en repository.DuplicateError.
var uniqueFields = map[string]string{
	"persons_email_lower_key":    repository.FieldEmail,
	"persons_primary_mobile_key": repository.FieldPrimaryMobile,
	"persons_employee_code_key":  repository.FieldEmployeeCode,
	"users_email_lower_key":      "email",
	"departments_code_key":       "code",
	"departments_name_lower_key": "name",
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// translateUnique convierte una violación de unicidad en *repository.DuplicateError;
// cualquier otro error se devuelve igual.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return err
	}
	field, ok := uniqueFields[pgErr.ConstraintName]
	if !ok {
		field = pgErr.ConstraintName
	}
	return &repository.DuplicateError{Field: field}
}

// isEmployeeCodeLocked verifica si el trigger rechazó reescribir un código asignado.
func isEmployeeCodeLocked(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolationCode &&
		pgErr.ConstraintName == employeeCodeLockConstraint
}
