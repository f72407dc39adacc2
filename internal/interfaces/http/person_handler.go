package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/application/onboarding"
)

// PersonHandler registro y consulta de personas (etapa de Operación).
type PersonHandler struct {
	engine *onboarding.Engine
}

// NewPersonHandler construye el handler.
func NewPersonHandler(engine *onboarding.Engine) *PersonHandler {
	return &PersonHandler{engine: engine}
}

// Create godoc
// @Summary      Registrar persona
// @Tags         persons
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePersonRequest  true  "datos de la persona"
// @Success      201   {object}  dto.PersonResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/persons [post]
func (h *PersonHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePersonRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.engine.CreatePerson(c.UserContext(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar personas
// @Tags         persons
// @Produce      json
// @Param        status            query  string  false  "estado"
// @Param        category          query  string  false  "categoría"
// @Param        owningDepartment  query  string  false  "id del departamento"
// @Param        limit             query  int     false  "tamaño de página (1-1000)"
// @Param        skip              query  int     false  "desplazamiento"
// @Success      200   {object}  dto.PersonListResponse
// @Security     BearerAuth
// @Router       /api/persons [get]
func (h *PersonHandler) List(c *fiber.Ctx) error {
	in := dto.PersonFilterRequest{
		Status:           c.Query("status"),
		Category:         c.Query("category"),
		OwningDepartment: c.Query("owningDepartment"),
		PageRequest:      pageFrom(c),
	}
	out, err := h.engine.ListPersons(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener persona
// @Tags         persons
// @Produce      json
// @Param        id   path  string  true  "id de la persona"
// @Success      200  {object}  dto.PersonResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/persons/{id} [get]
func (h *PersonHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuidParam(c, "Person not found")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.engine.GetPerson(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SubmitToFinance godoc
// @Summary      Enviar a Finanzas
// @Tags         persons
// @Produce      json
// @Param        id   path  string  true  "id de la persona"
// @Success      200  {object}  dto.PersonResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/persons/{id}/submit-to-finance [post]
func (h *PersonHandler) SubmitToFinance(c *fiber.Ctx) error {
	id, err := uuidParam(c, "Person not found")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.engine.SubmitToFinance(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func pageFrom(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", 0), Skip: c.QueryInt("skip", 0)}
}
