package repository

import (
	"context"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ListByIDs carga varios usuarios a la vez para hidratar proyecciones.
	ListByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	CountActiveByDepartment(ctx context.Context, departmentID string) (int, error)
}
