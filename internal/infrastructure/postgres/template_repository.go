package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

var _ repository.TemplateRepository = (*TemplateRepo)(nil)

// TemplateRepo plantillas de documentos de RR.HH.
type TemplateRepo struct {
	db DBTX
}

// NewTemplateRepository construye el adaptador.
func NewTemplateRepository(db DBTX) *TemplateRepo {
	return &TemplateRepo{db: db}
}

const templateColumns = `id, name, type, content, is_published, published_at, is_active, created_at, updated_at`

func scanTemplate(row rowScanner) (*entity.Template, error) {
	var (
		t   entity.Template
		typ string
	)
	err := row.Scan(&t.ID, &t.Name, &typ, &t.Content, &t.IsPublished, &t.PublishedAt, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Type = entity.HRDocumentType(typ)
	return &t, nil
}

// Create persiste una plantilla.
func (r *TemplateRepo) Create(ctx context.Context, t *entity.Template) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO templates (id, name, type, content, is_published, published_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Name, string(t.Type), t.Content, t.IsPublished, t.PublishedAt, t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// GetByID obtiene una plantilla por ID.
func (r *TemplateRepo) GetByID(ctx context.Context, id string) (*entity.Template, error) {
	if !validID(id) {
		return nil, nil
	}
	t, err := scanTemplate(r.db.QueryRow(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

// FindPublishedByType la más reciente publicada y activa del tipo.
func (r *TemplateRepo) FindPublishedByType(ctx context.Context, typ entity.HRDocumentType) (*entity.Template, error) {
	t, err := scanTemplate(r.db.QueryRow(ctx, `SELECT `+templateColumns+` FROM templates
		WHERE type = $1 AND is_published AND is_active
		ORDER BY published_at DESC NULLS LAST, created_at DESC LIMIT 1`, string(typ)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find published template: %w", err)
	}
	return t, nil
}
