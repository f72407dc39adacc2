package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/hr-onboarding-api/internal/application/audit"
	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/application/ports"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/workflow"
)

// CreatePerson registra una persona en OPERATION_STAGE_A. Sólo Operación.
// La unicidad de email y móvil la decide el almacenamiento.
func (e *Engine) CreatePerson(ctx context.Context, actor ports.Actor, in dto.CreatePersonRequest) (*dto.PersonResponse, error) {
	operation, err := e.dir.Resolve(ctx, entity.DepartmentCodeOperation)
	if err != nil {
		return nil, err
	}
	if actor.DepartmentID != operation.ID {
		msg := "Only Operation department users can create persons"
		e.audit.Record(ctx, actor, audit.Entry{
			Action: entity.AuditPersonActionDenied,
			Target: entity.TargetPerson,
			Metadata: map[string]any{
				"attemptedAction": string(workflow.ActionCreate),
				"attemptedBy":     actor.UserID,
				"gate":            "department",
				"reason":          msg,
			},
		})
		return nil, domain.Forbidden(msg)
	}

	normalizePerson(&in)
	if err := validatePersonFields(in); err != nil {
		var verr *domain.Error
		if errors.As(err, &verr) {
			e.audit.Record(ctx, actor, audit.Entry{
				Action: entity.AuditPersonDocValidationFailed,
				Target: entity.TargetPerson,
				Metadata: map[string]any{
					"email":         in.Email,
					"category":      in.Category,
					"missingFields": verr.MissingFields,
					"reason":        verr.Message,
				},
			})
		}
		return nil, err
	}
	if verr := validateIntakeDocuments(in); verr != nil {
		e.audit.Record(ctx, actor, audit.Entry{
			Action: entity.AuditPersonDocValidationFailed,
			Target: entity.TargetPerson,
			Metadata: map[string]any{
				"email":            in.Email,
				"category":         in.Category,
				"missingDocuments": verr.MissingDocuments,
				"reason":           verr.Message,
			},
		})
		return nil, verr
	}
	if entity.Category(in.Category) != entity.CategoryMechanical {
		in.NDTCertificate = ""
	}

	now := e.clock.Now()
	p := &entity.Person{
		ID:                        uuid.New().String(),
		FullName:                  in.FullName,
		Email:                     in.Email,
		PrimaryMobile:             in.PrimaryMobile,
		AlternateMobile:           in.AlternateMobile,
		EmploymentType:            entity.EmploymentType(in.EmploymentType),
		CompanyName:               in.CompanyName,
		Category:                  entity.Category(in.Category),
		Experience:                in.Experience,
		CurrentLocation:           in.CurrentLocation,
		CVFile:                    in.CVFile,
		QualificationCertificates: append([]string(nil), in.QualificationCertificates...),
		NDTCertificate:            in.NDTCertificate,
		OwningDepartmentID:        operation.ID,
		CreatedBy:                 actor.UserID,
		IsActive:                  true,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}
	to, err := workflow.Target(workflow.ActionCreate, "")
	if err != nil {
		return nil, err
	}
	p.AppendStatus(to, actor.UserID, now)

	if err := e.persons.Create(ctx, p); err != nil {
		if repository.IsDuplicate(err, "") {
			return nil, e.duplicatePerson(ctx, actor, in, err)
		}
		return nil, fmt.Errorf("crear persona: %w", err)
	}

	e.audit.Record(ctx, actor, audit.Entry{
		Action:   entity.AuditPersonCreate,
		Target:   entity.TargetPerson,
		TargetID: p.ID,
		Changes: map[string]any{
			"fullName":      p.FullName,
			"email":         p.Email,
			"category":      string(p.Category),
			"currentStatus": string(p.CurrentStatus),
		},
	})
	e.log.Info().Str("person_id", p.ID).Str("user_id", actor.UserID).Str("to", string(p.CurrentStatus)).Msg("persona creada")
	return e.project(ctx, p)
}

// duplicatePerson audita el intento contra la persona existente y devuelve Conflict.
func (e *Engine) duplicatePerson(ctx context.Context, actor ports.Actor, in dto.CreatePersonRequest, cause error) error {
	var (
		existing *entity.Person
		field    = repository.FieldEmail
		msg      = "Person with this email already exists"
	)
	if repository.IsDuplicate(cause, repository.FieldPrimaryMobile) {
		field = repository.FieldPrimaryMobile
		msg = "Person with this primary mobile already exists"
		existing, _ = e.persons.GetByPrimaryMobile(ctx, in.PrimaryMobile)
	} else {
		existing, _ = e.persons.GetByEmail(ctx, in.Email)
	}
	targetID := ""
	if existing != nil {
		targetID = existing.ID
	}
	e.audit.Record(ctx, actor, audit.Entry{
		Action:   entity.AuditPersonDuplicateAttempt,
		Target:   entity.TargetPerson,
		TargetID: targetID,
		Metadata: map[string]any{
			"field":          field,
			"attemptedEmail": in.Email,
			"attemptedPhone": in.PrimaryMobile,
		},
	})
	e.log.Warn().Str("field", field).Str("existing_id", targetID).Str("user_id", actor.UserID).Msg("persona duplicada")
	return domain.Conflict(msg)
}

// GetPerson proyección de una persona.
func (e *Engine) GetPerson(ctx context.Context, personID string) (*dto.PersonResponse, error) {
	p, err := e.persons.GetByID(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("cargar persona: %w", err)
	}
	if p == nil {
		return nil, domain.NotFound("Person not found")
	}
	return e.project(ctx, p)
}

// ListPersons filtra por estado, categoría y departamento dueño.
func (e *Engine) ListPersons(ctx context.Context, in dto.PersonFilterRequest) (*dto.PersonListResponse, error) {
	var fe domain.FieldErrors
	filter := repository.PersonFilter{OwningDepartmentID: in.OwningDepartment}
	if in.Status != "" {
		filter.Status = entity.PersonStatus(in.Status)
		if !workflow.Valid(filter.Status) {
			fe.Add("status", "Unknown person status")
		}
	}
	if in.Category != "" {
		filter.Category = entity.Category(in.Category)
		if !filter.Category.Valid() {
			fe.Add("category", "Unknown category")
		}
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	page := in.PageRequest.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Skip

	persons, total, err := e.persons.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar personas: %w", err)
	}
	items, err := e.projector.ProjectMany(ctx, persons)
	if err != nil {
		return nil, err
	}
	return &dto.PersonListResponse{Items: items, Page: dto.NewPageResponse(page, total, len(items))}, nil
}

// SubmitToFinance pasa la persona a FINANCE_STAGE y transfiere la propiedad a Finanzas.
func (e *Engine) SubmitToFinance(ctx context.Context, actor ports.Actor, personID string) (*dto.PersonResponse, error) {
	g, err := e.open(ctx, actor, workflow.ActionSubmit, personFamily, personID)
	if err != nil {
		return nil, err
	}
	if err := e.requireDepartment(ctx, g); err != nil {
		return nil, err
	}
	p := g.person
	from := p.CurrentStatus
	if !workflow.Allowed(workflow.ActionSubmit, from) {
		return nil, invalidState("submit to finance", from, "Only persons in OPERATION_STAGE_A can be submitted.")
	}
	finance, err := e.dir.Resolve(ctx, entity.DepartmentCodeFinance)
	if err != nil {
		return nil, err
	}
	to, err := workflow.Target(workflow.ActionSubmit, from)
	if err != nil {
		return nil, err
	}
	previousOwner := p.OwningDepartmentID
	p.OwningDepartmentID = finance.ID
	p.AppendStatus(to, actor.UserID, e.clock.Now())
	if err := e.commit(ctx, p, from); err != nil {
		return nil, err
	}

	e.audit.Record(ctx, actor, audit.Entry{
		Action:   entity.AuditPersonSubmittedToFinance,
		Target:   entity.TargetPerson,
		TargetID: p.ID,
		Changes: map[string]any{
			"currentStatus":    map[string]any{"old": string(from), "new": string(to)},
			"owningDepartment": map[string]any{"old": previousOwner, "new": finance.ID},
		},
	})
	e.logTransition(p, actor, workflow.ActionSubmit, from)
	return e.project(ctx, p)
}
