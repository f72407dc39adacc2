package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

var userCols = []string{"id", "email", "password_hash", "full_name", "department_id", "permissions", "is_active", "created_at", "updated_at"}

func TestUserRepo_CreateGuardaEmailEnMinusculas(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()
	u := &entity.User{ID: "u-1", Email: "Ana@HR.local", PasswordHash: "h", FullName: "Ana", DepartmentID: "d-fin", IsActive: true, CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("u-1", "ana@hr.local", "h", "Ana", "d-fin", []string{}, true, now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CreateDuplicado(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(anyArgs(9)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_key"})

	err := repo.Create(context.Background(), &entity.User{ID: "u-1", Email: "a@hr.local"})
	assert.True(t, repository.IsDuplicate(err, "email"))
}

func TestUserRepo_GetByEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(email) = lower($1)")).
		WithArgs("FIN@hr.local").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("u-2", "fin@hr.local", "h", "Finance", "d-fin", []string{"FINANCE_UPDATE"}, true, now, now))

	u, err := repo.GetByEmail(context.Background(), "FIN@hr.local")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u-2", u.ID)
	assert.Equal(t, []string{"FINANCE_UPDATE"}, u.Permissions)
}

func TestUserRepo_GetByIDInexistente(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	const id = "9d3b7e21-4c5a-4f8e-b1a2-3c4d5e6f7a80"
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	u, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepo_ListByIDsVacioNoConsulta(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	list, err := repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = repo.ListByIDs(context.Background(), []string{"u-1", "abc"})
	require.NoError(t, err)
	assert.Empty(t, list, "ids malformados no llegan a la consulta")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CountActiveByDepartment(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM users")).
		WithArgs("d-ops").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountActiveByDepartment(context.Background(), "d-ops")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM users")).
		WithArgs("d-ops").
		WillReturnError(errors.New("conn reset"))
	_, err = repo.CountActiveByDepartment(context.Background(), "d-ops")
	assert.ErrorContains(t, err, "count active users")
}
