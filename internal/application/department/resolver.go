// Package department resuelve los departamentos que anclan el flujo y expone su
// administración (listar, activar, desactivar).
package department

import (
	"context"
	"fmt"

	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
)

// Directory capacidad de resolución que consume el motor de flujo.
type Directory interface {
	// Resolve busca el departamento canónico por código; si no existe devuelve
	// domain.ErrDepartmentNotConfigured.
	Resolve(ctx context.Context, code string) (*entity.Department, error)
	// ByID devuelve nil si no existe.
	ByID(ctx context.Context, id string) (*entity.Department, error)
}

// displayNames nombre con el que se busca y se reporta cada código canónico.
var displayNames = map[string]string{
	entity.DepartmentCodeAdmin:     "Administration",
	entity.DepartmentCodeOperation: "Operation",
	entity.DepartmentCodeFinance:   "Finance",
	entity.DepartmentCodeHR:        "HR",
}

// DisplayName nombre legible del código canónico (el propio código si no es canónico).
func DisplayName(code string) string {
	if n, ok := displayNames[code]; ok {
		return n
	}
	return code
}

// Resolver implementa Directory sobre el repositorio. Se consulta en cada llamada;
// no guarda estado.
type Resolver struct {
	repo repository.DepartmentRepository
}

var _ Directory = (*Resolver)(nil)

// NewResolver construye el resolver.
func NewResolver(repo repository.DepartmentRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve código exacto (OPERATION) o nombre sin distinguir mayúsculas (operation).
func (r *Resolver) Resolve(ctx context.Context, code string) (*entity.Department, error) {
	name := DisplayName(code)
	d, err := r.repo.FindByCodeOrName(ctx, code, name)
	if err != nil {
		return nil, fmt.Errorf("resolver departamento %s: %w", code, err)
	}
	if d == nil {
		return nil, domain.DepartmentNotConfigured(name)
	}
	return d, nil
}

// ByID busca por id.
func (r *Resolver) ByID(ctx context.Context, id string) (*entity.Department, error) {
	if id == "" {
		return nil, nil
	}
	return r.repo.GetByID(ctx, id)
}
