package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hr-onboarding-api/internal/application/audit"
	"github.com/jhoicas/hr-onboarding-api/internal/application/auth"
	"github.com/jhoicas/hr-onboarding-api/internal/application/department"
	"github.com/jhoicas/hr-onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/hr-onboarding-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine      *onboarding.Engine
	AuthUC      *auth.AuthUseCase
	AuditQuery  *audit.QueryUseCase
	Departments *department.UseCase
	JWTSecret   string
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.AuthUC))
	need := RequirePermission

	persons := protected.Group("/persons")
	personHandler := NewPersonHandler(deps.Engine)
	persons.Post("/", need(entity.PermPersonCreate), personHandler.Create)
	persons.Get("/", need(entity.PermPersonRead), personHandler.List)
	persons.Get("/:id", need(entity.PermPersonRead), personHandler.GetByID)
	persons.Post("/:id/submit-to-finance", need(entity.PermPersonSubmitToFinance), personHandler.SubmitToFinance)

	// Finanzas
	financeHandler := NewFinanceHandler(deps.Engine)
	persons.Put("/:id/finance", need(entity.PermFinanceUpdate), financeHandler.Update)
	persons.Post("/:id/finance/complete", need(entity.PermFinanceComplete), financeHandler.Complete)
	persons.Post("/:id/finance/assign-employee-code", need(entity.PermEmployeeCodeAssign), financeHandler.AssignEmployeeCode)

	// RR.HH.
	hrHandler := NewHRHandler(deps.Engine)
	persons.Post("/:id/hr/generate", need(entity.PermHRDocumentGenerate), hrHandler.Generate)
	persons.Post("/:id/hr/upload", need(entity.PermHRDocumentUpload), hrHandler.Upload)
	persons.Get("/:id/hr/documents", need(entity.PermHRDocumentRead), hrHandler.Documents)
	persons.Post("/:id/hr/complete", need(entity.PermHRComplete), hrHandler.Complete)

	// Administración
	admin := protected.Group("/admin")
	adminHandler := NewAdminHandler(deps.AuditQuery, deps.Departments)
	admin.Get("/audit", need(entity.PermAuditLogRead), adminHandler.ListAuditLogs)
	admin.Get("/departments", need(entity.PermDepartmentRead), adminHandler.ListDepartments)
	admin.Patch("/departments/:id/status", need(entity.PermDepartmentUpdate), adminHandler.SetDepartmentStatus)
}
