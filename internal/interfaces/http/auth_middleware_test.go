package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	apphttp "github.com/jhoicas/hr-onboarding-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/hr-onboarding-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret    = "test-secret-key-for-unit-tests"
	testUserID       = "00000000-0000-0000-0000-000000000001"
	testDepartmentID = "00000000-0000-0000-0000-000000000002"
	testIssuer       = "hr-onboarding-test"
	testExpMin       = 60
)

// stubChecker usuarios conocidos por id.
type stubChecker map[string]*entity.User

func (s stubChecker) ActiveUser(_ context.Context, id string) (*entity.User, error) {
	u, ok := s[id]
	if !ok || !u.IsActive {
		return nil, domain.Unauthorized("User not found or inactive")
	}
	return u, nil
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequirePermission para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(flag string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, nil),
		apphttp.RequirePermission(flag),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
		},
	)
	return app
}

// tokenWith genera un JWT con los permisos indicados.
func tokenWith(t *testing.T, perms ...string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Identity{
		UserID:       testUserID,
		DepartmentID: testDepartmentID,
		Permissions:  perms,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermission_ConFlagAccede(t *testing.T) {
	app := buildTestApp(entity.PermFinanceUpdate)
	resp := doRequest(t, app, tokenWith(t, entity.PermPersonRead, entity.PermFinanceUpdate))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission_MasterAdminCubreTodo(t *testing.T) {
	app := buildTestApp(entity.PermHRComplete)
	resp := doRequest(t, app, tokenWith(t, entity.PermMasterAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermission_SinFlag_Retorna403(t *testing.T) {
	app := buildTestApp(entity.PermHRComplete)
	resp := doRequest(t, app, tokenWith(t, entity.PermFinanceUpdate))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "Insufficient permissions")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.PermPersonRead), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.PermPersonRead), "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.PermPersonRead), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

func TestAuthMiddleware_ExtraeIdentidad(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, nil), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":       apphttp.GetUserID(c),
			"department_id": apphttp.GetDepartmentID(c),
			"permissions":   apphttp.GetPermissions(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenWith(t, entity.PermPersonCreate))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		UserID       string   `json:"user_id"`
		DepartmentID string   `json:"department_id"`
		Permissions  []string `json:"permissions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, testDepartmentID, body.DepartmentID)
	assert.Equal(t, []string{entity.PermPersonCreate}, body.Permissions)
}

func TestAuthMiddleware_UsuarioInactivo_Retorna401(t *testing.T) {
	checker := stubChecker{testUserID: {ID: testUserID, IsActive: false}}
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret, checker), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp := doRequest(t, app, tokenWith(t, entity.PermMasterAdmin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_PermisosDesdeLaFilaActual(t *testing.T) {
	// el token dice MASTER_ADMIN pero la fila ya no
	checker := stubChecker{testUserID: {
		ID: testUserID, DepartmentID: "d-otro", Permissions: []string{entity.PermPersonRead}, IsActive: true,
	}}
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, checker),
		apphttp.RequirePermission(entity.PermHRComplete),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	resp := doRequest(t, app, tokenWith(t, entity.PermMasterAdmin))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
