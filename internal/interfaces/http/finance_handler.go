package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/application/onboarding"
)

// FinanceHandler etapa de Finanzas: KYC, cierre y código de empleado.
type FinanceHandler struct {
	engine *onboarding.Engine
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(engine *onboarding.Engine) *FinanceHandler {
	return &FinanceHandler{engine: engine}
}

// Update godoc
// @Summary      Actualizar datos de Finanzas (parcial)
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "id de la persona"
// @Param        body  body  dto.UpdateFinanceRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.PersonResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/persons/{id}/finance [put]
func (h *FinanceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateFinanceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := uuidParam(c, "Person not found")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.engine.UpdateFinanceDetails(c.UserContext(), actorFrom(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar Finanzas
// @Tags         finance
// @Produce      json
// @Param        id   path  string  true  "id de la persona"
// @Success      200  {object}  dto.PersonResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/persons/{id}/finance/complete [post]
func (h *FinanceHandler) Complete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "Person not found")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.engine.CompleteFinance(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AssignEmployeeCode godoc
// @Summary      Asignar código de empleado
// @Tags         finance
// @Produce      json
// @Param        id   path  string  true  "id de la persona"
// @Success      200  {object}  dto.PersonResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/persons/{id}/finance/assign-employee-code [post]
func (h *FinanceHandler) AssignEmployeeCode(c *fiber.Ctx) error {
	id, err := uuidParam(c, "Person not found")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.engine.AssignEmployeeCode(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
