package onboarding_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hr-onboarding-api/internal/application/audit"
	"github.com/jhoicas/hr-onboarding-api/internal/application/department"
	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/application/employeecode"
	"github.com/jhoicas/hr-onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/hr-onboarding-api/internal/application/ports"
	"github.com/jhoicas/hr-onboarding-api/internal/application/readmodel"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
	"github.com/jhoicas/hr-onboarding-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Harness: motor completo sobre repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

var testClock = ports.FixedClock{T: time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)}

const (
	deptOperation = "d-operation"
	deptFinance   = "d-finance"
	deptHR        = "d-hr"

	tplOffer       = "0b5c6f0e-2d7a-4c1e-9a61-0f3b8e1d2a01"
	tplDeclaration = "0b5c6f0e-2d7a-4c1e-9a61-0f3b8e1d2a02"
	tplDraft       = "0b5c6f0e-2d7a-4c1e-9a61-0f3b8e1d2a03"
)

type harness struct {
	engine  *onboarding.Engine
	persons *memory.Store
	logs    *memory.AuditLogs
	op      ports.Actor
	fin     ports.Actor
	hr      ports.Actor
	seq     int
}

type harnessOpt func(*harnessConfig)

type harnessConfig struct {
	departments []*entity.Department
	sink        audit.Sink
}

func withDepartments(deps ...*entity.Department) harnessOpt {
	return func(c *harnessConfig) { c.departments = deps }
}

func withSink(s audit.Sink) harnessOpt {
	return func(c *harnessConfig) { c.sink = s }
}

func defaultDepartments() []*entity.Department {
	return []*entity.Department{
		{ID: deptOperation, Name: "Operation", Code: entity.DepartmentCodeOperation, IsActive: true},
		{ID: deptFinance, Name: "Finance", Code: entity.DepartmentCodeFinance, IsActive: true},
		// resuelto por nombre, no por código
		{ID: deptHR, Name: "hr", Code: "HUMAN_RESOURCES", IsActive: true},
	}
}

func newHarness(t *testing.T, opts ...harnessOpt) *harness {
	t.Helper()
	cfg := harnessConfig{departments: defaultDepartments()}
	for _, o := range opts {
		o(&cfg)
	}
	persons := memory.NewStore()
	logs := memory.NewAuditLogs()
	deps := memory.NewDepartments(cfg.departments...)
	users := memory.NewUsers(
		&entity.User{ID: "u-op", FullName: "Olga Operación", Email: "op@example.com", DepartmentID: deptOperation, IsActive: true},
		&entity.User{ID: "u-fin", FullName: "Federico Finanzas", Email: "fin@example.com", DepartmentID: deptFinance, IsActive: true},
		&entity.User{ID: "u-hr", FullName: "Helena RRHH", Email: "hr@example.com", DepartmentID: deptHR, IsActive: true},
	)
	templates := memory.NewTemplates(
		&entity.Template{ID: tplOffer, Name: "Carta oferta 2025", Type: entity.DocOfferLetter, IsPublished: true, IsActive: true},
		&entity.Template{ID: tplDeclaration, Name: "Declaración", Type: entity.DocDeclaration, IsPublished: true, IsActive: true},
		&entity.Template{ID: tplDraft, Name: "Borrador", Type: entity.DocOfferLetter, IsPublished: false, IsActive: true},
	)
	sink := cfg.sink
	if sink == nil {
		sink = audit.NewRecorder(logs, testClock, nil)
	}
	engine := onboarding.New(onboarding.Deps{
		Persons:   persons,
		Templates: templates,
		Directory: department.NewResolver(deps),
		Audit:     sink,
		Codes:     employeecode.New(persons, testClock, 0, nil),
		Projector: readmodel.NewProjector(users, deps),
		Clock:     testClock,
	})
	return &harness{
		engine:  engine,
		persons: persons,
		logs:    logs,
		op:      ports.Actor{UserID: "u-op", DepartmentID: deptOperation, IPAddress: "10.1.1.1", UserAgent: "test"},
		fin:     ports.Actor{UserID: "u-fin", DepartmentID: deptFinance},
		hr:      ports.Actor{UserID: "u-hr", DepartmentID: deptHR},
	}
}

// personRequest payload válido con email y móvil únicos.
func (h *harness) personRequest(category entity.Category) dto.CreatePersonRequest {
	h.seq++
	req := dto.CreatePersonRequest{
		FullName:                  fmt.Sprintf("Persona %d", h.seq),
		Email:                     fmt.Sprintf("persona%d@example.com", h.seq),
		PrimaryMobile:             fmt.Sprintf("+91 98765 %05d", h.seq),
		EmploymentType:            string(entity.EmploymentFullTime),
		Category:                  string(category),
		CVFile:                    "cv.pdf",
		QualificationCertificates: []string{"degree.pdf"},
	}
	if category == entity.CategoryMechanical {
		req.NDTCertificate = "ndt.pdf"
	}
	return req
}

func (h *harness) create(t *testing.T) *dto.PersonResponse {
	t.Helper()
	p, err := h.engine.CreatePerson(context.Background(), h.op, h.personRequest(entity.CategoryIT))
	require.NoError(t, err)
	return p
}

func strp(s string) *string { return &s }

func fullFinance() dto.UpdateFinanceRequest {
	amt := decimal.RequireFromString("55000.50")
	return dto.UpdateFinanceRequest{
		BankName:          strp("State Bank"),
		AccountHolderName: strp("Persona"),
		AccountNumber:     strp("00112233445566"),
		IFSCCode:          strp("sbin0001234"),
		PANNumber:         strp("abcde1234f"),
		PaymentMode:       strp("BANK_TRANSFER"),
		SalaryType:        strp("MONTHLY"),
		SalaryAmount:      &amt,
		BankProof:         strp("bank.pdf"),
		PANCard:           strp("pan.pdf"),
		SalaryStructure:   strp("salary.pdf"),
	}
}

// advance lleva una persona nueva hasta el estado pedido por el camino feliz.
func (h *harness) advance(t *testing.T, target entity.PersonStatus) *dto.PersonResponse {
	t.Helper()
	ctx := context.Background()
	p := h.create(t)
	steps := []struct {
		status entity.PersonStatus
		run    func() (*dto.PersonResponse, error)
	}{
		{entity.StatusFinanceStage, func() (*dto.PersonResponse, error) { return h.engine.SubmitToFinance(ctx, h.op, p.ID) }},
		{entity.StatusFinanceCompleted, func() (*dto.PersonResponse, error) {
			if _, err := h.engine.UpdateFinanceDetails(ctx, h.fin, p.ID, fullFinance()); err != nil {
				return nil, err
			}
			return h.engine.CompleteFinance(ctx, h.fin, p.ID)
		}},
		{entity.StatusEmployeeCodeAssigned, func() (*dto.PersonResponse, error) { return h.engine.AssignEmployeeCode(ctx, h.fin, p.ID) }},
		{entity.StatusHRStage, func() (*dto.PersonResponse, error) {
			return h.engine.GenerateHRDocument(ctx, h.hr, p.ID, dto.GenerateHRDocumentRequest{DocumentType: "OFFER_LETTER", TemplateID: tplOffer})
		}},
	}
	for _, s := range steps {
		if p.CurrentStatus == target {
			return p
		}
		var err error
		p, err = s.run()
		require.NoError(t, err, "avanzando a %s", s.status)
		require.Equal(t, s.status, p.CurrentStatus)
	}
	require.Equal(t, target, p.CurrentStatus)
	return p
}

func (h *harness) actions() []entity.AuditAction {
	var out []entity.AuditAction
	for _, l := range h.logs.All() {
		out = append(out, l.Action)
	}
	return out
}

func (h *harness) countAction(a entity.AuditAction) int {
	n := 0
	for _, l := range h.logs.All() {
		if l.Action == a {
			n++
		}
	}
	return n
}

// failingAuditRepo almacenamiento de auditoría caído.
type failingAuditRepo struct{}

func (failingAuditRepo) Append(context.Context, *entity.AuditLog) error {
	return errors.New("audit store unavailable")
}

func (failingAuditRepo) List(context.Context, repository.AuditLogFilter) ([]*entity.AuditLog, int, error) {
	return nil, 0, errors.New("audit store unavailable")
}

func kindOf(t *testing.T, err error) *domain.Error {
	t.Helper()
	require.Error(t, err)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	return de
}
