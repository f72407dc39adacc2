package repository

import (
	"context"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
)

// DepartmentRepository puerto de persistencia para Department.
type DepartmentRepository interface {
	Create(ctx context.Context, d *entity.Department) error
	GetByID(ctx context.Context, id string) (*entity.Department, error)
	// FindByCodeOrName busca por código exacto o por nombre sin distinguir mayúsculas.
	FindByCodeOrName(ctx context.Context, code, name string) (*entity.Department, error)
	List(ctx context.Context) ([]*entity.Department, error)
	Update(ctx context.Context, d *entity.Department) error
}
