// Package onboarding es el motor del flujo Operación → Finanzas → RR.HH.
// Cada acción lee, valida departamento, bloqueo de edición y estado, y termina en una
// única escritura condicional sobre la persona. Éxitos y rechazos quedan auditados.
package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/hr-onboarding-api/internal/application/audit"
	"github.com/jhoicas/hr-onboarding-api/internal/application/department"
	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/application/ports"
	"github.com/jhoicas/hr-onboarding-api/internal/application/readmodel"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/workflow"
	"github.com/jhoicas/hr-onboarding-api/pkg/logger"
)

// DefaultDocumentBasePath prefijo de las referencias de documentos generados.
const DefaultDocumentBasePath = "/uploads/hr"

// CodeAllocator asigna el código de empleado y lo persiste vía commit.
type CodeAllocator interface {
	Allocate(ctx context.Context, commit func(code string) error) (string, error)
}

// Deps dependencias del motor.
type Deps struct {
	Persons          repository.PersonRepository
	Templates        repository.TemplateRepository
	Directory        department.Directory
	Audit            audit.Sink
	Codes            CodeAllocator
	Projector        *readmodel.Projector
	Clock            ports.Clock
	Log              *logger.Logger
	DocumentBasePath string
}

// Engine casos de uso del flujo de incorporación.
type Engine struct {
	persons   repository.PersonRepository
	templates repository.TemplateRepository
	dir       department.Directory
	audit     audit.Sink
	codes     CodeAllocator
	projector *readmodel.Projector
	clock     ports.Clock
	log       *logger.Logger
	docBase   string
}

// New construye el motor.
func New(d Deps) *Engine {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Clock == nil {
		d.Clock = ports.SystemClock{}
	}
	if d.DocumentBasePath == "" {
		d.DocumentBasePath = DefaultDocumentBasePath
	}
	return &Engine{
		persons:   d.Persons,
		templates: d.Templates,
		dir:       d.Directory,
		audit:     d.Audit,
		codes:     d.Codes,
		projector: d.Projector,
		clock:     d.Clock,
		log:       d.Log,
		docBase:   d.DocumentBasePath,
	}
}

// family agrupa acciones por el evento de rechazo que generan.
type family struct {
	denied entity.AuditAction
	failed entity.AuditAction
}

var (
	personFamily  = family{denied: entity.AuditPersonActionDenied, failed: entity.AuditPersonDocValidationFailed}
	financeFamily = family{denied: entity.AuditFinanceUpdateAttemptDenied, failed: entity.AuditFinanceValidationFailed}
	hrFamily      = family{denied: entity.AuditHRUpdateAttemptDenied, failed: entity.AuditHRValidationFailed}
)

// gate contexto resuelto de una acción sobre una persona existente.
type gate struct {
	action   workflow.Action
	fam      family
	actor    ports.Actor
	person   *entity.Person
	required *entity.Department // departamento que ejecuta la acción
	code     string             // código canónico de required
	caller   *entity.Department // departamento del actor (nil si no existe)
}

func (g *gate) callerName() string {
	if g.caller == nil {
		return "Unknown"
	}
	return g.caller.Name
}

func (g *gate) callerIs(d *entity.Department) bool {
	return d != nil && g.actor.DepartmentID == d.ID
}

// open carga la persona y resuelve los departamentos de la acción.
func (e *Engine) open(ctx context.Context, actor ports.Actor, a workflow.Action, fam family, personID string) (*gate, error) {
	p, err := e.persons.GetByID(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("cargar persona: %w", err)
	}
	if p == nil {
		return nil, domain.NotFound("Person not found")
	}
	rule, ok := workflow.RuleFor(a)
	if !ok {
		return nil, fmt.Errorf("onboarding: acción sin regla %s", a)
	}
	required, err := e.dir.Resolve(ctx, rule.Department)
	if err != nil {
		return nil, err
	}
	caller, err := e.dir.ByID(ctx, actor.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("cargar departamento del actor: %w", err)
	}
	return &gate{action: a, fam: fam, actor: actor, person: p, required: required, code: rule.Department, caller: caller}, nil
}

// requireDepartment rechaza (y audita) si el actor no es del departamento de la acción.
func (e *Engine) requireDepartment(ctx context.Context, g *gate) error {
	if g.callerIs(g.required) {
		return nil
	}
	msg := fmt.Sprintf("Only %s department users can perform this action", department.DisplayName(g.code))
	e.deny(ctx, g, "department", msg)
	return domain.Forbidden(msg)
}

// lookup como Resolve pero devuelve nil si el departamento no está configurado.
func (e *Engine) lookup(ctx context.Context, code string) (*entity.Department, error) {
	d, err := e.dir.Resolve(ctx, code)
	if errors.Is(err, domain.ErrDepartmentNotConfigured) {
		return nil, nil
	}
	return d, err
}

// financeLock Operación y RR.HH. no editan mientras la persona está en la ventana de Finanzas.
func (e *Engine) financeLock(ctx context.Context, g *gate) error {
	if !workflow.FinanceLocked(g.person.CurrentStatus) {
		return nil
	}
	return e.lockOut(ctx, g, entity.DepartmentCodeOperation, entity.DepartmentCodeHR)
}

// hrLock Operación y Finanzas no editan en la ventana de RR.HH.; con readOnly, RR.HH.
// tampoco edita una vez completado.
func (e *Engine) hrLock(ctx context.Context, g *gate, readOnly bool) error {
	status := g.person.CurrentStatus
	if !workflow.HRLocked(status) {
		return nil
	}
	if err := e.lockOut(ctx, g, entity.DepartmentCodeOperation, entity.DepartmentCodeFinance); err != nil {
		return err
	}
	if readOnly && workflow.ReadOnly(status) && g.callerIs(g.required) {
		msg := "HR cannot edit persons after HR completion. Profile is read-only."
		e.deny(ctx, g, "read_only", msg)
		return domain.Forbidden(msg)
	}
	return nil
}

func (e *Engine) lockOut(ctx context.Context, g *gate, codes ...string) error {
	for _, code := range codes {
		d, err := e.lookup(ctx, code)
		if err != nil {
			return err
		}
		if g.callerIs(d) {
			msg := fmt.Sprintf("%s department cannot edit persons in %s stage", g.callerName(), g.person.CurrentStatus)
			e.deny(ctx, g, "edit_lock", msg)
			return domain.Forbidden(msg)
		}
	}
	return nil
}

// deny registra el rechazo una sola vez por intento.
func (e *Engine) deny(ctx context.Context, g *gate, gateName, reason string) {
	e.audit.Record(ctx, g.actor, audit.Entry{
		Action:   g.fam.denied,
		Target:   entity.TargetPerson,
		TargetID: g.person.ID,
		Metadata: map[string]any{
			"attemptedAction": string(g.action),
			"attemptedBy":     g.actor.UserID,
			"userDepartment":  g.callerName(),
			"personStatus":    string(g.person.CurrentStatus),
			"gate":            gateName,
			"reason":          reason,
		},
	})
	e.log.Warn().
		Str("person_id", g.person.ID).
		Str("user_id", g.actor.UserID).
		Str("action", string(g.action)).
		Str("gate", gateName).
		Msg(reason)
}

// invalid audita y devuelve un fallo de validación.
func (e *Engine) invalid(ctx context.Context, g *gate, verr *domain.Error) error {
	e.audit.Record(ctx, g.actor, audit.Entry{
		Action:   g.fam.failed,
		Target:   entity.TargetPerson,
		TargetID: g.person.ID,
		Metadata: map[string]any{
			"attemptedAction":  string(g.action),
			"personStatus":     string(g.person.CurrentStatus),
			"reason":           verr.Message,
			"missingFields":    verr.MissingFields,
			"missingDocuments": verr.MissingDocuments,
		},
	})
	return verr
}

// conflict audita un intento repetido con el evento de fallo de la familia y devuelve Conflict.
func (e *Engine) conflict(ctx context.Context, g *gate, msg string, extra map[string]any) error {
	meta := map[string]any{
		"attemptedAction": string(g.action),
		"personStatus":    string(g.person.CurrentStatus),
		"outcome":         "duplicate",
		"reason":          msg,
	}
	for k, v := range extra {
		meta[k] = v
	}
	e.audit.Record(ctx, g.actor, audit.Entry{
		Action:   g.fam.failed,
		Target:   entity.TargetPerson,
		TargetID: g.person.ID,
		Metadata: meta,
	})
	return domain.Conflict(msg)
}

// invalidState acción pedida desde un estado que no la admite.
func invalidState(what string, current entity.PersonStatus, allowed string) error {
	return domain.InvalidState(fmt.Sprintf("Cannot %s. Person status is %s. %s", what, current, allowed))
}

// commit escribe la persona si el estado persistido sigue siendo expected.
// Una escritura perdida en carrera se reporta como Conflict con el estado actual.
func (e *Engine) commit(ctx context.Context, p *entity.Person, expected entity.PersonStatus) error {
	p.UpdatedAt = e.clock.Now()
	err := e.persons.UpdateIfStatus(ctx, p, expected)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrStaleWrite) {
		return e.staleConflict(ctx, p.ID)
	}
	return err
}

func (e *Engine) staleConflict(ctx context.Context, personID string) error {
	current := "unknown"
	if fresh, err := e.persons.GetByID(ctx, personID); err == nil && fresh != nil {
		current = string(fresh.CurrentStatus)
	}
	return domain.Conflict(fmt.Sprintf("Person was modified concurrently. Current status is %s", current))
}

func (e *Engine) logTransition(p *entity.Person, actor ports.Actor, a workflow.Action, from entity.PersonStatus) {
	e.log.Info().
		Str("person_id", p.ID).
		Str("user_id", actor.UserID).
		Str("action", string(a)).
		Str("from", string(from)).
		Str("to", string(p.CurrentStatus)).
		Msg("transición aplicada")
}

func (e *Engine) project(ctx context.Context, p *entity.Person) (*dto.PersonResponse, error) {
	return e.projector.Project(ctx, p)
}
