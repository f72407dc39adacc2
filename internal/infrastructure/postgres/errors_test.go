package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

func TestTranslateUnique(t *testing.T) {
	cases := map[string]string{
		"persons_email_lower_key":    repository.FieldEmail,
		"persons_primary_mobile_key": repository.FieldPrimaryMobile,
		"persons_employee_code_key":  repository.FieldEmployeeCode,
		"departments_code_key":       "code",
		"indice_desconocido":         "indice_desconocido",
	}
	for constraint, field := range cases {
		err := translateUnique(&pgconn.PgError{Code: "23505", ConstraintName: constraint})
		assert.True(t, repository.IsDuplicate(err, field), constraint)
	}
}

func TestTranslateUnique_OtrosErroresIntactos(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503"}
	assert.Same(t, fk, translateUnique(fk))

	other := errors.New("other")
	assert.Equal(t, other, translateUnique(other))
	assert.False(t, isUniqueViolation(other))
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
}

func TestIsEmployeeCodeLocked(t *testing.T) {
	assert.True(t, isEmployeeCodeLocked(&pgconn.PgError{Code: "23514", ConstraintName: "persons_employee_code_immutable"}))
	assert.False(t, isEmployeeCodeLocked(&pgconn.PgError{Code: "23514", ConstraintName: "persons_status_check"}))
	assert.False(t, isEmployeeCodeLocked(errors.New("other")))
}

func TestMigraciones_TriggerDeCodigoInmutable(t *testing.T) {
	up, err := migrationFS.ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TRIGGER persons_employee_code_lock")
	assert.Contains(t, string(up), "CONSTRAINT = '"+employeeCodeLockConstraint+"'")

	down, err := migrationFS.ReadFile("migrations/000001_init.down.sql")
	require.NoError(t, err)
	assert.Contains(t, string(down), "DROP TRIGGER IF EXISTS persons_employee_code_lock ON persons")
}
