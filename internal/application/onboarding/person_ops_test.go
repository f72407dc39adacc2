package onboarding_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hr-onboarding-api/internal/application/audit"
	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/repository"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/workflow"
)

// ──────────────────────────────────────────────────────────────────────────────
// CreatePerson
// ──────────────────────────────────────────────────────────────────────────────

func TestCreatePerson_MecanicoSinNDT(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	req := h.personRequest(entity.CategoryMechanical)
	req.NDTCertificate = ""

	_, err := h.engine.CreatePerson(ctx, h.op, req)
	de := kindOf(t, err)
	assert.Equal(t, domain.KindValidation, de.Kind)
	assert.Equal(t, "NDT certificate is required for MECHANICAL category", de.Message)
	assert.Equal(t, []string{"ndtCertificate"}, de.MissingDocuments)
	assert.Equal(t, []entity.AuditAction{entity.AuditPersonDocValidationFailed}, h.actions())

	req.NDTCertificate = "file.pdf"
	p, err := h.engine.CreatePerson(ctx, h.op, req)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOperationStageA, p.CurrentStatus)
	assert.Equal(t, "file.pdf", p.NDTCertificate)
	assert.Equal(t, deptOperation, p.OwningDepartment.ID)
	assert.Equal(t, "Operation", p.OwningDepartment.Name)
	assert.Equal(t, "Olga Operación", p.CreatedBy.FullName, "createdBy hidratado")
	require.Len(t, p.StatusHistory, 1)
	assert.Equal(t, "u-op", p.StatusHistory[0].ChangedBy.ID)
}

func TestCreatePerson_NDTSeDescartaFueraDeMecanica(t *testing.T) {
	h := newHarness(t)
	req := h.personRequest(entity.CategoryCivil)
	req.NDTCertificate = "ndt.pdf"

	p, err := h.engine.CreatePerson(context.Background(), h.op, req)
	require.NoError(t, err)
	assert.Empty(t, p.NDTCertificate)
}

func TestCreatePerson_DocumentosFaltantes(t *testing.T) {
	h := newHarness(t)
	req := h.personRequest(entity.CategoryIT)
	req.CVFile = ""
	req.QualificationCertificates = nil

	_, err := h.engine.CreatePerson(context.Background(), h.op, req)
	de := kindOf(t, err)
	assert.ElementsMatch(t, []string{"cvFile", "qualificationCertificates"}, de.MissingDocuments)
}

func TestCreatePerson_SoloOperacion(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.CreatePerson(context.Background(), h.fin, h.personRequest(entity.CategoryIT))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, []entity.AuditAction{entity.AuditPersonActionDenied}, h.actions())
}

func TestCreatePerson_CamposInvalidos(t *testing.T) {
	h := newHarness(t)
	req := h.personRequest(entity.CategoryIT)
	req.Email = "no-es-email"
	req.PrimaryMobile = "12ab"
	req.Category = "CHEF"

	_, err := h.engine.CreatePerson(context.Background(), h.op, req)
	de := kindOf(t, err)
	assert.Equal(t, domain.KindValidation, de.Kind)
	assert.ElementsMatch(t, []string{"email", "primaryMobile", "category"}, de.MissingFields)
	assert.Equal(t, []entity.AuditAction{entity.AuditPersonDocValidationFailed}, h.actions())
	logs := h.logs.All()
	assert.ElementsMatch(t, []string{"email", "primaryMobile", "category"}, logs[0].Metadata["missingFields"])
	assert.Empty(t, logs[0].TargetID, "la persona no llegó a existir")
}

func TestCreatePerson_MovilAlternoIgualAlPrincipal(t *testing.T) {
	h := newHarness(t)
	req := h.personRequest(entity.CategoryIT)
	req.AlternateMobile = req.PrimaryMobile

	_, err := h.engine.CreatePerson(context.Background(), h.op, req)
	de := kindOf(t, err)
	assert.Equal(t, []string{"alternateMobile"}, de.MissingFields)
}

func TestCreatePerson_EmailDuplicadoSinMayusculas(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	first := h.create(t)

	req := h.personRequest(entity.CategoryIT)
	req.Email = strings.ToUpper(first.Email)
	_, err := h.engine.CreatePerson(ctx, h.op, req)
	assert.ErrorIs(t, err, domain.ErrConflict)

	logs := h.logs.All()
	last := logs[len(logs)-1]
	assert.Equal(t, entity.AuditPersonDuplicateAttempt, last.Action)
	assert.Equal(t, first.ID, last.TargetID, "auditado contra la persona existente")
	assert.Equal(t, repository.FieldEmail, last.Metadata["field"])
}

func TestCreatePerson_MovilDuplicado(t *testing.T) {
	h := newHarness(t)
	first := h.create(t)

	req := h.personRequest(entity.CategoryIT)
	req.PrimaryMobile = first.PrimaryMobile
	_, err := h.engine.CreatePerson(context.Background(), h.op, req)
	de := kindOf(t, err)
	assert.Equal(t, domain.KindConflict, de.Kind)
	assert.Contains(t, de.Message, "primary mobile")

	logs := h.logs.All()
	assert.Equal(t, first.ID, logs[len(logs)-1].TargetID)
}

func TestCreatePerson_EmailGanaSobreMovil(t *testing.T) {
	for i := 0; i < 20; i++ {
		h := newHarness(t)
		a := h.create(t)
		b := h.create(t)

		req := h.personRequest(entity.CategoryIT)
		req.Email = a.Email
		req.PrimaryMobile = b.PrimaryMobile
		_, err := h.engine.CreatePerson(context.Background(), h.op, req)
		de := kindOf(t, err)
		require.Equal(t, domain.KindConflict, de.Kind)
		require.Equal(t, "Person with this email already exists", de.Message)

		logs := h.logs.All()
		last := logs[len(logs)-1]
		require.Equal(t, a.ID, last.TargetID)
		require.Equal(t, repository.FieldEmail, last.Metadata["field"])
	}
}

func TestCreatePerson_DepartamentoNoConfigurado(t *testing.T) {
	h := newHarness(t, withDepartments())
	_, err := h.engine.CreatePerson(context.Background(), h.op, h.personRequest(entity.CategoryIT))
	assert.ErrorIs(t, err, domain.ErrDepartmentNotConfigured)
	assert.Equal(t, "Operation department not found. Please contact administrator.", err.Error())
}

// ──────────────────────────────────────────────────────────────────────────────
// SubmitToFinance
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmitToFinance_TransfierePropiedad(t *testing.T) {
	h := newHarness(t)
	p := h.create(t)

	out, err := h.engine.SubmitToFinance(context.Background(), h.op, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFinanceStage, out.CurrentStatus)
	assert.Equal(t, deptFinance, out.OwningDepartment.ID)
	require.Len(t, out.StatusHistory, 2)
	assert.Equal(t, entity.StatusFinanceStage, out.StatusHistory[1].Status)
	assert.Equal(t, 1, h.countAction(entity.AuditPersonSubmittedToFinance))
}

func TestSubmitToFinance_SegundaVezEsEstadoInvalido(t *testing.T) {
	h := newHarness(t)
	p := h.advance(t, entity.StatusFinanceStage)

	_, err := h.engine.SubmitToFinance(context.Background(), h.op, p.ID)
	de := kindOf(t, err)
	assert.Equal(t, domain.KindInvalidState, de.Kind)
	assert.Contains(t, de.Message, "FINANCE_STAGE", "el mensaje incluye el estado actual")
}

func TestSubmitToFinance_OtroDepartamento(t *testing.T) {
	h := newHarness(t)
	p := h.create(t)

	_, err := h.engine.SubmitToFinance(context.Background(), h.hr, p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 1, h.countAction(entity.AuditPersonActionDenied))
}

func TestSubmitToFinance_SinFinanzasConfigurado(t *testing.T) {
	h := newHarness(t, withDepartments(
		&entity.Department{ID: deptOperation, Name: "Operation", Code: entity.DepartmentCodeOperation},
	))
	p := h.create(t)
	_, err := h.engine.SubmitToFinance(context.Background(), h.op, p.ID)
	assert.ErrorIs(t, err, domain.ErrDepartmentNotConfigured)

	stored, _ := h.persons.GetByID(context.Background(), p.ID)
	assert.Equal(t, entity.StatusOperationStageA, stored.CurrentStatus, "sin mutación parcial")
}

func TestSubmitToFinance_PersonaInexistente(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.SubmitToFinance(context.Background(), h.op, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura
// ──────────────────────────────────────────────────────────────────────────────

func TestListPersons_FiltraYPagina(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 3; i++ {
		h.create(t)
	}
	h.advance(t, entity.StatusFinanceStage)

	out, err := h.engine.ListPersons(context.Background(), dto.PersonFilterRequest{
		Status:      string(entity.StatusOperationStageA),
		PageRequest: dto.PageRequest{Limit: 2},
	})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 3, out.Page.Total)
	assert.True(t, out.Page.HasMore)

	out, err = h.engine.ListPersons(context.Background(), dto.PersonFilterRequest{OwningDepartment: deptFinance})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, 100, out.Page.Limit, "límite por defecto")
	assert.False(t, out.Page.HasMore)
}

func TestListPersons_EstadoDesconocido(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.ListPersons(context.Background(), dto.PersonFilterRequest{Status: "ARCHIVED"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetPerson_NoExiste(t *testing.T) {
	h := newHarness(t)
	_, err := h.engine.GetPerson(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades del flujo
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_HistorialSoloAvanza(t *testing.T) {
	h := newHarness(t)
	p := h.advance(t, entity.StatusHRStage)
	ctx := context.Background()

	// intentos fuera de orden no alteran el historial
	_, _ = h.engine.SubmitToFinance(ctx, h.op, p.ID)
	_, _ = h.engine.CompleteFinance(ctx, h.fin, p.ID)
	_, _ = h.engine.AssignEmployeeCode(ctx, h.fin, p.ID)

	stored, err := h.persons.GetByID(ctx, p.ID)
	require.NoError(t, err)
	prev := -1
	for _, s := range stored.StatusHistory {
		r := workflow.Rank(s.Status)
		assert.Equal(t, prev+1, r, "sin saltos ni retrocesos: %s", s.Status)
		prev = r
	}
	assert.Equal(t, entity.StatusHRStage, stored.CurrentStatus)
}

func TestFlujo_FalloDeAuditoriaNoBloquea(t *testing.T) {
	h := newHarness(t, withSink(audit.NewRecorder(failingAuditRepo{}, testClock, nil)))
	p := h.advance(t, entity.StatusFinanceStage)
	assert.Equal(t, entity.StatusFinanceStage, p.CurrentStatus)
}
