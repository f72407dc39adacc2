package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hr-onboarding-api/internal/app"
	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	apphttp "github.com/jhoicas/hr-onboarding-api/internal/interfaces/http"
	"github.com/jhoicas/hr-onboarding-api/pkg/config"
	"github.com/jhoicas/hr-onboarding-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// API completa sobre almacenamiento en memoria con datos de seed
// ──────────────────────────────────────────────────────────────────────────────

const seedPassword = "pw-http-test"

type apiEnv struct {
	app    *fiber.App
	stores *app.Stores
	tokens map[string]string
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	cfg := &config.Config{
		JWT:        config.JWTConfig{Secret: testJWTSecret, Expiration: 5, Issuer: testIssuer},
		Onboarding: config.OnboardingConfig{DocumentBasePath: "/uploads/hr", EmployeeCodeMaxAttempts: 100},
	}
	log := logger.Nop()
	stores := app.MemoryStores()
	_, err := app.Seed(context.Background(), stores, log, seedPassword, nil)
	require.NoError(t, err)
	svc := app.NewServices(stores, cfg, log, nil)

	f := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	f.Use(requestid.New())
	f.Use(apphttp.AccessLog(log))
	apphttp.Router(f, apphttp.RouterDeps{
		Engine:      svc.Engine,
		AuthUC:      svc.Auth,
		AuditQuery:  svc.AuditQuery,
		Departments: svc.Departments,
		JWTSecret:   testJWTSecret,
		ServiceName: "hr-onboarding-test",
	})
	env := &apiEnv{app: f, stores: stores, tokens: map[string]string{}}
	for _, who := range []string{"admin", "operation", "finance", "hr"} {
		var out dto.LoginResponse
		resp := env.call(t, "", http.MethodPost, "/api/auth/login",
			map[string]string{"email": who + "@hr.local", "password": seedPassword}, &out)
		require.Equal(t, http.StatusOK, resp.StatusCode, "login %s", who)
		env.tokens[who] = out.Token
	}
	return env
}

// call envía body como JSON y decodifica la respuesta en out (si no es nil).
func (e *apiEnv) call(t *testing.T, who, method, path string, body any, out any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if who != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[who])
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func personPayload() map[string]any {
	return map[string]any{
		"fullName":                  "Ravi Kumar",
		"email":                     "Ravi.Kumar@example.com",
		"primaryMobile":             "+91 98765 43210",
		"employmentType":            "FULL_TIME",
		"category":                  "IT",
		"cvFile":                    "cv.pdf",
		"qualificationCertificates": []string{"degree.pdf"},
	}
}

func financePayload() map[string]any {
	return map[string]any{
		"bankName":          "State Bank",
		"accountHolderName": "Ravi Kumar",
		"accountNumber":     "00112233445566",
		"ifscCode":          "sbin0001234",
		"panNumber":         "abcde1234f",
		"paymentMode":       "BANK_TRANSFER",
		"salaryType":        "MONTHLY",
		"salaryAmount":      55000.5,
		"bankProof":         "bank.pdf",
		"panCard":           "pan.pdf",
		"salaryStructure":   "salary.pdf",
	}
}

func (e *apiEnv) templateID(t *testing.T, typ entity.HRDocumentType) string {
	t.Helper()
	tpl, err := e.stores.Templates.FindPublishedByType(context.Background(), typ)
	require.NoError(t, err)
	require.NotNil(t, tpl)
	return tpl.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	env := newAPI(t)
	var out map[string]string
	resp := env.call(t, "", http.MethodGet, "/health", nil, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", out["status"])
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestAPI_FlujoCompleto(t *testing.T) {
	env := newAPI(t)
	var p dto.PersonResponse

	resp := env.call(t, "operation", http.MethodPost, "/api/persons", personPayload(), &p)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "ravi.kumar@example.com", p.Email)
	assert.Equal(t, entity.StatusOperationStageA, p.CurrentStatus)
	assert.Equal(t, "Operation", p.OwningDepartment.Name)
	assert.Equal(t, "operation@hr.local", p.CreatedBy.Email)
	id := p.ID

	resp = env.call(t, "operation", http.MethodPost, "/api/persons/"+id+"/submit-to-finance", nil, &p)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.StatusFinanceStage, p.CurrentStatus)

	resp = env.call(t, "finance", http.MethodPut, "/api/persons/"+id+"/finance", financePayload(), &p)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SBIN0001234", p.FinanceDetails.IFSCCode)

	resp = env.call(t, "finance", http.MethodPost, "/api/persons/"+id+"/finance/complete", nil, &p)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.StatusFinanceCompleted, p.CurrentStatus)

	resp = env.call(t, "finance", http.MethodPost, "/api/persons/"+id+"/finance/assign-employee-code", nil, &p)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Regexp(t, regexp.MustCompile(`^JP-EMP-\d{4}-\d{6}$`), p.EmployeeCode)
	require.NotNil(t, p.EmployeeCodeAssignedBy)
	assert.Equal(t, "finance@hr.local", p.EmployeeCodeAssignedBy.Email)

	for _, typ := range []entity.HRDocumentType{entity.DocOfferLetter, entity.DocDeclaration} {
		resp = env.call(t, "hr", http.MethodPost, "/api/persons/"+id+"/hr/generate",
			map[string]string{"documentType": string(typ), "templateId": env.templateID(t, typ)}, &p)
		require.Equal(t, http.StatusOK, resp.StatusCode, "generar %s", typ)
		resp = env.call(t, "hr", http.MethodPost, "/api/persons/"+id+"/hr/upload",
			map[string]string{"documentType": string(typ), "signedFile": "signed-" + string(typ) + ".pdf"}, &p)
		require.Equal(t, http.StatusOK, resp.StatusCode, "firmar %s", typ)
	}
	assert.Equal(t, entity.StatusHRStage, p.CurrentStatus)

	var docs dto.HRDocumentsResponse
	resp = env.call(t, "hr", http.MethodGet, "/api/persons/"+id+"/hr/documents", nil, &docs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.HRDocSigned, docs.OfferLetter.Status)
	assert.Equal(t, "ravi.kumar@example.com", docs.Email)
	assert.Nil(t, docs.HRCompletedAt)

	resp = env.call(t, "hr", http.MethodPost, "/api/persons/"+id+"/hr/complete", nil, &p)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.StatusHRCompleted, p.CurrentStatus)
	assert.Len(t, p.StatusHistory, 6)

	resp = env.call(t, "hr", http.MethodGet, "/api/persons/"+id+"/hr/documents", nil, &docs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, docs.HRCompleted)
	assert.NotNil(t, docs.HRCompletedAt)

	var logs dto.AuditLogListResponse
	resp = env.call(t, "admin", http.MethodGet, "/api/admin/audit?targetId="+id+"&action=HR_COMPLETED", nil, &logs)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, logs.Items, 1)
	assert.Equal(t, "hr@hr.local", logs.Items[0].PerformedBy.Email)
}

func TestAPI_PermisoInsuficiente(t *testing.T) {
	env := newAPI(t)
	var e dto.ErrorResponse
	resp := env.call(t, "finance", http.MethodPost, "/api/persons", personPayload(), &e)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Insufficient permissions", e.Message)
}

func TestAPI_ValidacionConCamposFaltantes(t *testing.T) {
	env := newAPI(t)
	body := personPayload()
	delete(body, "cvFile")
	delete(body, "fullName")

	var e dto.ErrorResponse
	resp := env.call(t, "operation", http.MethodPost, "/api/persons", body, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", e.Code)
	assert.NotEmpty(t, e.MissingFields)
}

func TestAPI_DuplicadoEsConflicto(t *testing.T) {
	env := newAPI(t)
	resp := env.call(t, "operation", http.MethodPost, "/api/persons", personPayload(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := personPayload()
	body["email"] = "RAVI.KUMAR@example.com"
	body["primaryMobile"] = "+91 90000 00000"
	var e dto.ErrorResponse
	resp = env.call(t, "operation", http.MethodPost, "/api/persons", body, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", e.Code)
}

func TestAPI_EstadoInvalidoYNoEncontrado(t *testing.T) {
	env := newAPI(t)
	var p dto.PersonResponse
	env.call(t, "operation", http.MethodPost, "/api/persons", personPayload(), &p)

	var e dto.ErrorResponse
	resp := env.call(t, "finance", http.MethodPost, "/api/persons/"+p.ID+"/finance/assign-employee-code", nil, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_STATE", e.Code)

	resp = env.call(t, "operation", http.MethodGet, "/api/persons/no-existe", nil, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestAPI_IdentificadoresMalformados(t *testing.T) {
	env := newAPI(t)
	var e dto.ErrorResponse

	for _, path := range []string{"/api/persons/abc", "/api/persons/abc/hr/documents"} {
		resp := env.call(t, "admin", http.MethodGet, path, nil, &e)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "NOT_FOUND", e.Code, path)
	}
	resp := env.call(t, "finance", http.MethodPost, "/api/persons/abc/finance/complete", nil, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.call(t, "admin", http.MethodPatch, "/api/admin/departments/abc/status", map[string]bool{"isActive": false}, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Department not found", e.Message)

	e = dto.ErrorResponse{}
	resp = env.call(t, "admin", http.MethodGet, "/api/admin/audit?targetId=abc&performedBy=u-1", nil, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.ElementsMatch(t, []string{"targetId", "performedBy"}, e.MissingFields)
}

func TestAPI_GenerarConPlantillaMalformada(t *testing.T) {
	env := newAPI(t)
	var p dto.PersonResponse
	env.call(t, "operation", http.MethodPost, "/api/persons", personPayload(), &p)
	id := p.ID
	env.call(t, "operation", http.MethodPost, "/api/persons/"+id+"/submit-to-finance", nil, &p)
	env.call(t, "finance", http.MethodPut, "/api/persons/"+id+"/finance", financePayload(), &p)
	env.call(t, "finance", http.MethodPost, "/api/persons/"+id+"/finance/complete", nil, &p)
	resp := env.call(t, "finance", http.MethodPost, "/api/persons/"+id+"/finance/assign-employee-code", nil, &p)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var e dto.ErrorResponse
	resp = env.call(t, "hr", http.MethodPost, "/api/persons/"+id+"/hr/generate",
		map[string]string{"documentType": "OFFER_LETTER", "templateId": "abc"}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", e.Code)
	assert.Equal(t, []string{"templateId"}, e.MissingFields)
}

func TestAPI_LoginFallido(t *testing.T) {
	env := newAPI(t)
	var e dto.ErrorResponse
	resp := env.call(t, "", http.MethodPost, "/api/auth/login",
		map[string]string{"email": "hr@hr.local", "password": "incorrecta"}, &e)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", e.Code)
}

func TestAPI_Departamentos(t *testing.T) {
	env := newAPI(t)
	var list []dto.DepartmentResponse
	resp := env.call(t, "admin", http.MethodGet, "/api/admin/departments", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 4)

	var finance dto.DepartmentResponse
	for _, d := range list {
		if d.Code == entity.DepartmentCodeFinance {
			finance = d
		}
	}
	var e dto.ErrorResponse
	resp = env.call(t, "admin", http.MethodPatch, "/api/admin/departments/"+finance.ID+"/status",
		map[string]bool{"isActive": false}, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "tiene usuarios activos")

	resp = env.call(t, "admin", http.MethodPatch, "/api/admin/departments/"+finance.ID+"/status",
		map[string]string{}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"isActive"}, e.MissingFields)
}

func TestAPI_RutaInexistente(t *testing.T) {
	env := newAPI(t)
	var e dto.ErrorResponse
	resp := env.call(t, "", http.MethodGet, "/nada", nil, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)
}
