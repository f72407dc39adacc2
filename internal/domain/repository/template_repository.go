package repository

import (
	"context"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
)

// TemplateRepository puerto de lectura de plantillas de RR.HH.
type TemplateRepository interface {
	Create(ctx context.Context, t *entity.Template) error
	GetByID(ctx context.Context, id string) (*entity.Template, error)
	FindPublishedByType(ctx context.Context, t entity.HRDocumentType) (*entity.Template, error)
}
