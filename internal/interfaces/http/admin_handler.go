package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hr-onboarding-api/internal/application/audit"
	"github.com/jhoicas/hr-onboarding-api/internal/application/department"
	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
)

// AdminHandler auditoría y departamentos.
type AdminHandler struct {
	auditQuery  *audit.QueryUseCase
	departments *department.UseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(auditQuery *audit.QueryUseCase, departments *department.UseCase) *AdminHandler {
	return &AdminHandler{auditQuery: auditQuery, departments: departments}
}

// ListAuditLogs godoc
// @Summary      Consultar auditoría
// @Tags         admin
// @Produce      json
// @Param        action        query  string  false  "acción"
// @Param        targetEntity  query  string  false  "entidad"
// @Param        targetId      query  string  false  "id de la entidad"
// @Param        performedBy   query  string  false  "id del usuario"
// @Param        startDate     query  string  false  "RFC 3339"
// @Param        endDate       query  string  false  "RFC 3339"
// @Param        limit         query  int     false  "tamaño de página"
// @Param        skip          query  int     false  "desplazamiento"
// @Success      200  {object}  dto.AuditLogListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/audit [get]
func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	in := dto.AuditLogFilterRequest{
		Action:       c.Query("action"),
		TargetEntity: c.Query("targetEntity"),
		TargetID:     c.Query("targetId"),
		PerformedBy:  c.Query("performedBy"),
		StartDate:    c.Query("startDate"),
		EndDate:      c.Query("endDate"),
		PageRequest:  pageFrom(c),
	}
	out, err := h.auditQuery.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListDepartments godoc
// @Summary      Listar departamentos
// @Tags         admin
// @Produce      json
// @Success      200  {array}  dto.DepartmentResponse
// @Security     BearerAuth
// @Router       /api/admin/departments [get]
func (h *AdminHandler) ListDepartments(c *fiber.Ctx) error {
	out, err := h.departments.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetDepartmentStatus godoc
// @Summary      Activar o desactivar departamento
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "id del departamento"
// @Param        body  body  dto.SetDepartmentStatusRequest  true  "isActive"
// @Success      200   {object}  dto.DepartmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/departments/{id}/status [patch]
func (h *AdminHandler) SetDepartmentStatus(c *fiber.Ctx) error {
	var in dto.SetDepartmentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.IsActive == nil {
		return writeError(c, domain.Validation("isActive is required", []string{"isActive"}, nil))
	}
	id, err := uuidParam(c, "Department not found")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.departments.SetActive(c.UserContext(), actorFrom(c), id, *in.IsActive)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
