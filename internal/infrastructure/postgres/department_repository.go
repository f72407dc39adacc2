package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo implementación del puerto DepartmentRepository sobre PostgreSQL.
type DepartmentRepo struct {
	db DBTX
}

// NewDepartmentRepository construye el adaptador de persistencia para departamentos.
func NewDepartmentRepository(db DBTX) *DepartmentRepo {
	return &DepartmentRepo{db: db}
}

const departmentColumns = `id, name, code, is_active, created_at, updated_at`

func scanDepartment(row rowScanner) (*entity.Department, error) {
	var d entity.Department
	if err := row.Scan(&d.ID, &d.Name, &d.Code, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create persiste un departamento.
func (r *DepartmentRepo) Create(ctx context.Context, d *entity.Department) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO departments (id, name, code, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		d.ID, d.Name, d.Code, d.IsActive, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return translateUnique(err)
		}
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// GetByID obtiene un departamento por ID.
func (r *DepartmentRepo) GetByID(ctx context.Context, id string) (*entity.Department, error) {
	if !validID(id) {
		return nil, nil
	}
	d, err := scanDepartment(r.db.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department by id: %w", err)
	}
	return d, nil
}

// FindByCodeOrName código exacto o nombre sin distinguir mayúsculas; el más antiguo gana.
func (r *DepartmentRepo) FindByCodeOrName(ctx context.Context, code, name string) (*entity.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments
		WHERE code = $1 OR lower(name) = lower($2)
		ORDER BY created_at ASC, id ASC LIMIT 1`
	d, err := scanDepartment(r.db.QueryRow(ctx, query, code, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find department: %w", err)
	}
	return d, nil
}

// List todos, por nombre.
func (r *DepartmentRepo) List(ctx context.Context) ([]*entity.Department, error) {
	rows, err := r.db.Query(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Update actualiza nombre, código y estado.
func (r *DepartmentRepo) Update(ctx context.Context, d *entity.Department) error {
	_, err := r.db.Exec(ctx, `
		UPDATE departments SET name = $2, code = $3, is_active = $4, updated_at = $5
		WHERE id = $1`,
		d.ID, d.Name, d.Code, d.IsActive, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return translateUnique(err)
		}
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}
