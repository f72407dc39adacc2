package onboarding

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/hr-onboarding-api/internal/application/audit"
	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/application/ports"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/workflow"
)

const hrWindowHint = "Profiles are available to HR from EMPLOYEE_CODE_ASSIGNED onwards."

// openHR carga la persona y aplica bloqueo de edición y departamento de RR.HH.
func (e *Engine) openHR(ctx context.Context, actor ports.Actor, a workflow.Action, personID string, readOnly bool) (*gate, error) {
	g, err := e.open(ctx, actor, a, hrFamily, personID)
	if err != nil {
		return nil, err
	}
	if err := e.hrLock(ctx, g, readOnly); err != nil {
		return nil, err
	}
	if err := e.requireDepartment(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// slotOf devuelve el documento sin crearlo.
func slotOf(h *entity.HRDetails, t entity.HRDocumentType) *entity.HRDocument {
	if h == nil {
		return nil
	}
	if t == entity.DocOfferLetter {
		return h.OfferLetter
	}
	return h.Declaration
}

func parseDocType(s string) entity.HRDocumentType {
	return entity.HRDocumentType(strings.ToUpper(strings.TrimSpace(s)))
}

// enterHRStage promueve EMPLOYEE_CODE_ASSIGNED a HR_STAGE en la misma escritura.
func (e *Engine) enterHRStage(p *entity.Person, a workflow.Action, actor ports.Actor, from entity.PersonStatus) error {
	to, err := workflow.Target(a, from)
	if err != nil {
		return err
	}
	if to != from {
		p.AppendStatus(to, actor.UserID, e.clock.Now())
	}
	return nil
}

// GenerateHRDocument genera la carta oferta o la declaración desde una plantilla publicada.
// Cada documento se genera una sola vez.
func (e *Engine) GenerateHRDocument(ctx context.Context, actor ports.Actor, personID string, in dto.GenerateHRDocumentRequest) (*dto.PersonResponse, error) {
	g, err := e.openHR(ctx, actor, workflow.ActionGenerateDoc, personID, true)
	if err != nil {
		return nil, err
	}
	p := g.person
	from := p.CurrentStatus
	if !workflow.Allowed(workflow.ActionGenerateDoc, from) {
		return nil, invalidState("generate HR documents", from, hrWindowHint)
	}
	docType := parseDocType(in.DocumentType)
	if !docType.Valid() {
		return nil, e.invalid(ctx, g, domain.Validation("Document type must be OFFER_LETTER or DECLARATION", []string{"documentType"}, nil))
	}
	templateID := strings.TrimSpace(in.TemplateID)
	if templateID == "" {
		return nil, e.invalid(ctx, g, domain.Validation("Template ID is required", []string{"templateId"}, nil))
	}
	if uuid.Validate(templateID) != nil {
		return nil, e.invalid(ctx, g, domain.Validation("Template ID must be a valid id", []string{"templateId"}, nil))
	}
	tpl, err := e.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("cargar plantilla: %w", err)
	}
	if tpl == nil {
		return nil, domain.NotFound("Template not found")
	}
	if !tpl.IsPublished || !tpl.IsActive {
		return nil, e.invalid(ctx, g, domain.Validation("Template is not published. Only published templates can be used.", []string{"templateId"}, nil))
	}
	if tpl.Type != docType {
		msg := fmt.Sprintf("Template type %s does not match document type %s", tpl.Type, docType)
		return nil, e.invalid(ctx, g, domain.Validation(msg, []string{"templateId"}, nil))
	}
	if slot := slotOf(p.HRDetails, docType); slot != nil && slot.GeneratedFile != "" {
		msg := fmt.Sprintf("%s has already been generated for this person", docType)
		return nil, e.conflict(ctx, g, msg, map[string]any{"documentType": string(docType)})
	}

	now := e.clock.Now()
	file := fmt.Sprintf("%s/%s/%s-%d.pdf", strings.TrimRight(e.docBase, "/"), p.ID, strings.ToLower(string(docType)), now.UnixMilli())
	if p.HRDetails == nil {
		p.HRDetails = &entity.HRDetails{}
	}
	slot := p.HRDetails.Slot(docType)
	slot.TemplateID = tpl.ID
	slot.GeneratedFile = file
	slot.Status = entity.HRDocGenerated
	slot.GeneratedAt = &now
	if err := e.enterHRStage(p, workflow.ActionGenerateDoc, actor, from); err != nil {
		return nil, err
	}
	if err := e.commit(ctx, p, from); err != nil {
		return nil, err
	}

	e.audit.Record(ctx, actor, audit.Entry{
		Action:   entity.AuditHRDocumentGenerated,
		Target:   entity.TargetPerson,
		TargetID: p.ID,
		Changes: map[string]any{
			"previousStatus": string(from),
			"newStatus":      string(p.CurrentStatus),
			"documentType":   string(docType),
			"templateId":     tpl.ID,
			"templateName":   tpl.Name,
			"generatedFile":  file,
		},
	})
	e.logTransition(p, actor, workflow.ActionGenerateDoc, from)
	return e.project(ctx, p)
}

// UploadSignedHRDocument registra la copia firmada de un documento ya generado.
func (e *Engine) UploadSignedHRDocument(ctx context.Context, actor ports.Actor, personID string, in dto.UploadSignedHRDocumentRequest) (*dto.PersonResponse, error) {
	g, err := e.openHR(ctx, actor, workflow.ActionUploadSigned, personID, true)
	if err != nil {
		return nil, err
	}
	p := g.person
	from := p.CurrentStatus
	if !workflow.Allowed(workflow.ActionUploadSigned, from) {
		return nil, invalidState("upload signed HR documents", from, hrWindowHint)
	}
	docType := parseDocType(in.DocumentType)
	if !docType.Valid() {
		return nil, e.invalid(ctx, g, domain.Validation("Document type must be OFFER_LETTER or DECLARATION", []string{"documentType"}, nil))
	}
	signedFile := strings.TrimSpace(in.SignedFile)
	if signedFile == "" {
		return nil, e.invalid(ctx, g, domain.Validation("Signed file is required", []string{"signedFile"}, nil))
	}
	existing := slotOf(p.HRDetails, docType)
	if existing == nil || existing.GeneratedFile == "" {
		return nil, domain.InvalidState(fmt.Sprintf("%s must be generated before uploading the signed copy. Person status is %s.", docType, from))
	}
	if existing.Status == entity.HRDocSigned {
		msg := fmt.Sprintf("%s has already been signed", docType)
		return nil, e.conflict(ctx, g, msg, map[string]any{"documentType": string(docType)})
	}

	now := e.clock.Now()
	slot := p.HRDetails.Slot(docType)
	slot.SignedFile = signedFile
	slot.Status = entity.HRDocSigned
	slot.SignedAt = &now
	if err := e.enterHRStage(p, workflow.ActionUploadSigned, actor, from); err != nil {
		return nil, err
	}
	if err := e.commit(ctx, p, from); err != nil {
		return nil, err
	}

	e.audit.Record(ctx, actor, audit.Entry{
		Action:   entity.AuditHRDocumentSigned,
		Target:   entity.TargetPerson,
		TargetID: p.ID,
		Changes: map[string]any{
			"previousStatus": string(from),
			"newStatus":      string(p.CurrentStatus),
			"documentType":   string(docType),
			"signedFile":     signedFile,
		},
	})
	e.logTransition(p, actor, workflow.ActionUploadSigned, from)
	return e.project(ctx, p)
}

// ViewHRDocuments documentos de RR.HH. Antes de EMPLOYEE_CODE_ASSIGNED el perfil no es
// visible y se responde Forbidden.
func (e *Engine) ViewHRDocuments(ctx context.Context, personID string) (*dto.HRDocumentsResponse, error) {
	p, err := e.persons.GetByID(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("cargar persona: %w", err)
	}
	if p == nil {
		return nil, domain.NotFound("Person not found")
	}
	if !workflow.HRVisible(p.CurrentStatus) {
		return nil, domain.Forbidden(fmt.Sprintf(
			"Person profile is not visible. Current status is %s. %s", p.CurrentStatus, hrWindowHint))
	}
	c := p.Clone()
	out := &dto.HRDocumentsResponse{
		PersonID:      c.ID,
		FullName:      c.FullName,
		Email:         c.Email,
		EmployeeCode:  c.EmployeeCode,
		CurrentStatus: c.CurrentStatus,
	}
	if c.HRDetails != nil {
		out.OfferLetter = c.HRDetails.OfferLetter
		out.Declaration = c.HRDetails.Declaration
		out.HRCompleted = c.HRDetails.HRCompleted
		out.HRCompletedAt = c.HRDetails.HRCompletedAt
	}
	return out, nil
}

// CompleteHR cierra el flujo: exige código de empleado, KYC cerrado y ambos documentos firmados.
func (e *Engine) CompleteHR(ctx context.Context, actor ports.Actor, personID string) (*dto.PersonResponse, error) {
	g, err := e.openHR(ctx, actor, workflow.ActionCompleteHR, personID, false)
	if err != nil {
		return nil, err
	}
	p := g.person
	if p.HRCompleted() || p.CurrentStatus == entity.StatusHRCompleted {
		return nil, e.conflict(ctx, g, "HR process has already been completed for this person", nil)
	}
	from := p.CurrentStatus
	if !workflow.Allowed(workflow.ActionCompleteHR, from) {
		return nil, invalidState("complete HR", from, "Only persons in EMPLOYEE_CODE_ASSIGNED or HR_STAGE can be completed.")
	}

	var fields, docs []string
	if p.EmployeeCode == "" {
		fields = append(fields, "employeeCode")
	}
	if !p.KYCCompleted() {
		fields = append(fields, "financeKyc")
	}
	for _, t := range []entity.HRDocumentType{entity.DocOfferLetter, entity.DocDeclaration} {
		if s := slotOf(p.HRDetails, t); s == nil || s.Status != entity.HRDocSigned {
			docs = append(docs, string(t))
		}
	}
	if len(fields) > 0 || len(docs) > 0 {
		return nil, e.invalid(ctx, g, domain.Validation("HR completion requirements not met", fields, docs))
	}
	to, err := workflow.Target(workflow.ActionCompleteHR, from)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	p.HRDetails.HRCompleted = true
	p.HRDetails.HRCompletedAt = &now
	p.AppendStatus(to, actor.UserID, now)
	if err := e.commit(ctx, p, from); err != nil {
		return nil, err
	}

	e.audit.Record(ctx, actor, audit.Entry{
		Action:   entity.AuditHRCompleted,
		Target:   entity.TargetPerson,
		TargetID: p.ID,
		Changes: map[string]any{
			"currentStatus": map[string]any{"old": string(from), "new": string(to)},
			"hrCompleted":   map[string]any{"old": false, "new": true},
		},
	})
	e.logTransition(p, actor, workflow.ActionCompleteHR, from)
	return e.project(ctx, p)
}
