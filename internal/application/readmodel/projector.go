// Package readmodel arma las proyecciones de lectura de Person: reemplaza los ids de
// usuarios y departamentos por referencias embebidas. No participa en escrituras.
package readmodel

import (
	"context"
	"fmt"

	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
)

// UserLookup carga usuarios por lote.
type UserLookup interface {
	ListByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
}

// DepartmentLookup carga un departamento por id (nil si no existe).
type DepartmentLookup interface {
	GetByID(ctx context.Context, id string) (*entity.Department, error)
}

// Projector hidrata personas.
type Projector struct {
	users       UserLookup
	departments DepartmentLookup
}

// NewProjector construye el proyector.
func NewProjector(users UserLookup, departments DepartmentLookup) *Projector {
	return &Projector{users: users, departments: departments}
}

// Project una persona.
func (pr *Projector) Project(ctx context.Context, p *entity.Person) (*dto.PersonResponse, error) {
	out, err := pr.ProjectMany(ctx, []*entity.Person{p})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// ProjectMany varias personas con una sola carga de usuarios.
func (pr *Projector) ProjectMany(ctx context.Context, persons []*entity.Person) ([]dto.PersonResponse, error) {
	users, err := pr.loadUsers(ctx, persons)
	if err != nil {
		return nil, err
	}
	deps := map[string]dto.DepartmentRef{}
	out := make([]dto.PersonResponse, 0, len(persons))
	for _, p := range persons {
		dep, ok := deps[p.OwningDepartmentID]
		if !ok {
			dep, err = pr.loadDepartment(ctx, p.OwningDepartmentID)
			if err != nil {
				return nil, err
			}
			deps[p.OwningDepartmentID] = dep
		}
		out = append(out, toResponse(p, dep, users))
	}
	return out, nil
}

func (pr *Projector) loadUsers(ctx context.Context, persons []*entity.Person) (map[string]dto.UserRef, error) {
	seen := map[string]bool{}
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, p := range persons {
		add(p.CreatedBy)
		add(p.EmployeeCodeAssignedBy)
		for _, h := range p.StatusHistory {
			add(h.ChangedBy)
		}
	}
	refs := make(map[string]dto.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	users, err := pr.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hidratar usuarios: %w", err)
	}
	for _, u := range users {
		refs[u.ID] = dto.UserRef{ID: u.ID, FullName: u.FullName, Email: u.Email}
	}
	return refs, nil
}

func (pr *Projector) loadDepartment(ctx context.Context, id string) (dto.DepartmentRef, error) {
	ref := dto.DepartmentRef{ID: id}
	if id == "" {
		return ref, nil
	}
	d, err := pr.departments.GetByID(ctx, id)
	if err != nil {
		return ref, fmt.Errorf("hidratar departamento: %w", err)
	}
	if d != nil {
		ref.Name, ref.Code = d.Name, d.Code
	}
	return ref, nil
}

func userRef(refs map[string]dto.UserRef, id string) dto.UserRef {
	if r, ok := refs[id]; ok {
		return r
	}
	return dto.UserRef{ID: id}
}

func toResponse(p *entity.Person, dep dto.DepartmentRef, users map[string]dto.UserRef) dto.PersonResponse {
	c := p.Clone()
	history := make([]dto.StatusChangeResponse, 0, len(c.StatusHistory))
	for _, h := range c.StatusHistory {
		history = append(history, dto.StatusChangeResponse{
			Status:    h.Status,
			ChangedBy: userRef(users, h.ChangedBy),
			ChangedAt: h.ChangedAt,
		})
	}
	resp := dto.PersonResponse{
		ID:                        c.ID,
		FullName:                  c.FullName,
		Email:                     c.Email,
		PrimaryMobile:             c.PrimaryMobile,
		AlternateMobile:           c.AlternateMobile,
		EmploymentType:            c.EmploymentType,
		CompanyName:               c.CompanyName,
		Category:                  c.Category,
		Experience:                c.Experience,
		CurrentLocation:           c.CurrentLocation,
		CVFile:                    c.CVFile,
		QualificationCertificates: c.QualificationCertificates,
		NDTCertificate:            c.NDTCertificate,
		OwningDepartment:          dep,
		CurrentStatus:             c.CurrentStatus,
		StatusHistory:             history,
		FinanceDetails:            c.FinanceDetails,
		FinanceDocuments:          c.FinanceDocuments,
		EmployeeCode:              c.EmployeeCode,
		EmployeeCodeAssignedAt:    c.EmployeeCodeAssignedAt,
		HRDetails:                 c.HRDetails,
		CreatedBy:                 userRef(users, c.CreatedBy),
		IsActive:                  c.IsActive,
		CreatedAt:                 c.CreatedAt,
		UpdatedAt:                 c.UpdatedAt,
	}
	if c.EmployeeCodeAssignedBy != "" {
		ref := userRef(users, c.EmployeeCodeAssignedBy)
		resp.EmployeeCodeAssignedBy = &ref
	}
	return resp
}
