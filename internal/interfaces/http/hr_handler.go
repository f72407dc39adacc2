package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/application/onboarding"
)

// HRHandler etapa de RR.HH.: documentos y cierre.
type HRHandler struct {
	engine *onboarding.Engine
}

// NewHRHandler construye el handler.
func NewHRHandler(engine *onboarding.Engine) *HRHandler {
	return &HRHandler{engine: engine}
}

// Generate godoc
// @Summary      Generar documento de RR.HH.
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "id de la persona"
// @Param        body  body  dto.GenerateHRDocumentRequest  true  "documentType, templateId"
// @Success      200   {object}  dto.PersonResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/persons/{id}/hr/generate [post]
func (h *HRHandler) Generate(c *fiber.Ctx) error {
	var in dto.GenerateHRDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := uuidParam(c, "Person not found")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.engine.GenerateHRDocument(c.UserContext(), actorFrom(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Upload godoc
// @Summary      Registrar documento firmado
// @Tags         hr
// @Accept       json
// @Produce      json
// @Param        id    path  string                             true  "id de la persona"
// @Param        body  body  dto.UploadSignedHRDocumentRequest  true  "documentType, signedFile"
// @Success      200   {object}  dto.PersonResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/persons/{id}/hr/upload [post]
func (h *HRHandler) Upload(c *fiber.Ctx) error {
	var in dto.UploadSignedHRDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := uuidParam(c, "Person not found")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.engine.UploadSignedHRDocument(c.UserContext(), actorFrom(c), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Documents godoc
// @Summary      Ver documentos de RR.HH.
// @Tags         hr
// @Produce      json
// @Param        id   path  string  true  "id de la persona"
// @Success      200  {object}  dto.HRDocumentsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/persons/{id}/hr/documents [get]
func (h *HRHandler) Documents(c *fiber.Ctx) error {
	id, err := uuidParam(c, "Person not found")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.engine.ViewHRDocuments(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar RR.HH.
// @Tags         hr
// @Produce      json
// @Param        id   path  string  true  "id de la persona"
// @Success      200  {object}  dto.PersonResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/persons/{id}/hr/complete [post]
func (h *HRHandler) Complete(c *fiber.Ctx) error {
	id, err := uuidParam(c, "Person not found")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.engine.CompleteHR(c.UserContext(), actorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
