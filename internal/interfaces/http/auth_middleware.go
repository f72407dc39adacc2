package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/application/ports"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
	"github.com/jhoicas/hr-onboarding-api/pkg/jwt"
)

// Locals keys para la identidad del llamador en Fiber.
const (
	LocalUserID       = "user_id"
	LocalDepartmentID = "department_id"
	LocalPermissions  = "permissions"
)

// activeUserChecker lo implementa *auth.AuthUseCase.
type activeUserChecker interface {
	ActiveUser(ctx context.Context, userID string) (*entity.User, error)
}

// AuthMiddleware valida el Bearer Token JWT y carga la identidad en c.Locals.
// Con checker, el usuario debe seguir existiendo y activo; departamento y permisos se
// toman de su fila actual y no del token.
func AuthMiddleware(jwtSecret string, checker activeUserChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header is required"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "Expected format: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Token is empty"})
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "Invalid or expired token"})
		}

		departmentID, permissions := id.DepartmentID, id.Permissions
		if checker != nil {
			user, err := checker.ActiveUser(c.UserContext(), id.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: err.Error()})
				}
				return writeError(c, err)
			}
			departmentID, permissions = user.DepartmentID, user.Permissions
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalDepartmentID, departmentID)
		c.Locals(LocalPermissions, permissions)
		return c.Next()
	}
}

// RequirePermission exige el flag (o MASTER_ADMIN). Debe usarse DESPUÉS de AuthMiddleware.
func RequirePermission(flag string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "Authentication required"})
		}
		if !actorFrom(c).Has(flag) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "Insufficient permissions"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetDepartmentID devuelve el departamento del llamador.
func GetDepartmentID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalDepartmentID).(string)
	return s
}

// GetPermissions devuelve los flags del llamador.
func GetPermissions(c *fiber.Ctx) []string {
	p, _ := c.Locals(LocalPermissions).([]string)
	return p
}

// actorFrom arma la identidad que consumen los casos de uso, con la procedencia de la
// petición para auditoría.
func actorFrom(c *fiber.Ctx) ports.Actor {
	ip := c.IP()
	if ips := c.IPs(); len(ips) > 0 {
		ip = ips[0]
	}
	return ports.Actor{
		UserID:       GetUserID(c),
		DepartmentID: GetDepartmentID(c),
		Permissions:  GetPermissions(c),
		IPAddress:    ip,
		UserAgent:    c.Get(fiber.HeaderUserAgent),
	}
}
