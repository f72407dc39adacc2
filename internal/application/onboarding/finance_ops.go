package onboarding

import (
	"context"
	"errors"

	"github.com/jhoicas/hr-onboarding-api/internal/application/audit"
	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/application/ports"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/workflow"
)

// openFinance carga la persona y aplica bloqueo de edición y departamento de Finanzas.
func (e *Engine) openFinance(ctx context.Context, actor ports.Actor, a workflow.Action, personID string) (*gate, error) {
	g, err := e.open(ctx, actor, a, financeFamily, personID)
	if err != nil {
		return nil, err
	}
	if err := e.financeLock(ctx, g); err != nil {
		return nil, err
	}
	if err := e.requireDepartment(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateFinanceDetails actualización parcial del KYC mientras la persona está en FINANCE_STAGE.
func (e *Engine) UpdateFinanceDetails(ctx context.Context, actor ports.Actor, personID string, in dto.UpdateFinanceRequest) (*dto.PersonResponse, error) {
	g, err := e.openFinance(ctx, actor, workflow.ActionUpdateFinance, personID)
	if err != nil {
		return nil, err
	}
	p := g.person
	if p.KYCCompleted() {
		return nil, e.conflict(ctx, g, "Finance KYC has already been completed for this person", nil)
	}
	from := p.CurrentStatus
	if !workflow.Allowed(workflow.ActionUpdateFinance, from) {
		return nil, invalidState("update finance details", from, "Only persons in FINANCE_STAGE can be updated.")
	}
	if in.Empty() {
		return nil, e.invalid(ctx, g, domain.Validation("No finance fields provided", nil, nil))
	}

	// se edita sobre copias: un fallo de validación no deja cambios a medias
	c := p.Clone()
	fd, docs := c.FinanceDetails, c.FinanceDocuments
	if fd == nil {
		fd = &entity.FinanceDetails{}
	}
	if docs == nil {
		docs = &entity.FinanceDocuments{}
	}
	changed, err := applyFinancePatch(fd, docs, in)
	if err != nil {
		var verr *domain.Error
		if errors.As(err, &verr) {
			return nil, e.invalid(ctx, g, verr)
		}
		return nil, err
	}
	p.FinanceDetails = fd
	p.FinanceDocuments = docs
	if err := e.commit(ctx, p, from); err != nil {
		return nil, err
	}

	e.audit.Record(ctx, actor, audit.Entry{
		Action:   entity.AuditFinanceDetailsUpdated,
		Target:   entity.TargetPerson,
		TargetID: p.ID,
		Changes:  map[string]any{"updatedFields": changed},
	})
	e.log.Info().Str("person_id", p.ID).Str("user_id", actor.UserID).Strs("fields", changed).Msg("datos de finanzas actualizados")
	return e.project(ctx, p)
}

// CompleteFinance cierra el KYC si todos los campos y documentos obligatorios están presentes.
func (e *Engine) CompleteFinance(ctx context.Context, actor ports.Actor, personID string) (*dto.PersonResponse, error) {
	g, err := e.openFinance(ctx, actor, workflow.ActionCompleteFin, personID)
	if err != nil {
		return nil, err
	}
	p := g.person
	if p.KYCCompleted() {
		return nil, e.conflict(ctx, g, "Finance KYC has already been completed for this person", nil)
	}
	from := p.CurrentStatus
	if !workflow.Allowed(workflow.ActionCompleteFin, from) {
		return nil, invalidState("complete finance", from, "Only persons in FINANCE_STAGE can be completed.")
	}
	if fields, docs := missingFinance(p.FinanceDetails, p.FinanceDocuments); len(fields) > 0 || len(docs) > 0 {
		return nil, e.invalid(ctx, g, domain.Validation("Missing required finance fields or documents", fields, docs))
	}
	to, err := workflow.Target(workflow.ActionCompleteFin, from)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	p.FinanceDetails.KYCCompleted = true
	p.FinanceDetails.CompletedAt = &now
	p.AppendStatus(to, actor.UserID, now)
	if err := e.commit(ctx, p, from); err != nil {
		return nil, err
	}

	e.audit.Record(ctx, actor, audit.Entry{
		Action:   entity.AuditFinanceCompleted,
		Target:   entity.TargetPerson,
		TargetID: p.ID,
		Changes: map[string]any{
			"currentStatus": map[string]any{"old": string(from), "new": string(to)},
			"kycCompleted":  map[string]any{"old": false, "new": true},
		},
	})
	e.logTransition(p, actor, workflow.ActionCompleteFin, from)
	return e.project(ctx, p)
}

// AssignEmployeeCode emite el código JP-EMP-<año>-<secuencia>. El código es inmutable:
// una segunda asignación es Conflict.
func (e *Engine) AssignEmployeeCode(ctx context.Context, actor ports.Actor, personID string) (*dto.PersonResponse, error) {
	g, err := e.openFinance(ctx, actor, workflow.ActionAssignCode, personID)
	if err != nil {
		return nil, err
	}
	p := g.person
	if p.EmployeeCode != "" {
		e.duplicateCode(ctx, actor, p.ID, p.EmployeeCode, "already assigned")
		return nil, domain.Conflict("Employee code has already been assigned: " + p.EmployeeCode)
	}
	from := p.CurrentStatus
	if !workflow.Allowed(workflow.ActionAssignCode, from) {
		return nil, invalidState("assign employee code", from, "Only persons with status FINANCE_COMPLETED can be assigned employee code.")
	}
	to, err := workflow.Target(workflow.ActionAssignCode, from)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	assigned := p
	code, err := e.codes.Allocate(ctx, func(code string) error {
		candidate := p.Clone()
		candidate.EmployeeCode = code
		candidate.EmployeeCodeAssignedAt = &now
		candidate.EmployeeCodeAssignedBy = actor.UserID
		candidate.AppendStatus(to, actor.UserID, now)
		candidate.UpdatedAt = now
		if err := e.persons.UpdateIfStatus(ctx, candidate, from); err != nil {
			return err
		}
		assigned = candidate
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleWrite):
			e.duplicateCode(ctx, actor, p.ID, "", "concurrent assignment")
			return nil, e.staleConflict(ctx, p.ID)
		case repository.IsDuplicate(err, ""):
			e.duplicateCode(ctx, actor, p.ID, "", "storage uniqueness")
			return nil, domain.Conflict("Employee code already exists. Please try again.")
		}
		return nil, err
	}

	e.audit.Record(ctx, actor, audit.Entry{
		Action:   entity.AuditEmployeeCodeAssigned,
		Target:   entity.TargetPerson,
		TargetID: assigned.ID,
		Changes: map[string]any{
			"employeeCode":  map[string]any{"old": nil, "new": code},
			"currentStatus": map[string]any{"old": string(from), "new": string(to)},
		},
	})
	e.logTransition(assigned, actor, workflow.ActionAssignCode, from)
	return e.project(ctx, assigned)
}

func (e *Engine) duplicateCode(ctx context.Context, actor ports.Actor, personID, existing, reason string) {
	meta := map[string]any{"reason": reason}
	if existing != "" {
		meta["existingEmployeeCode"] = existing
	}
	e.audit.Record(ctx, actor, audit.Entry{
		Action:   entity.AuditEmployeeCodeDuplicateAttempt,
		Target:   entity.TargetPerson,
		TargetID: personID,
		Metadata: meta,
	})
}
