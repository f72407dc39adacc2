package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/hr-onboarding-api/internal/application/dto"
	"github.com/jhoicas/hr-onboarding-api/internal/domain"
)

var statusByKind = map[domain.Kind]int{
	domain.KindNotFound:                fiber.StatusNotFound,
	domain.KindConflict:                fiber.StatusConflict,
	domain.KindInvalidState:            fiber.StatusBadRequest,
	domain.KindForbidden:               fiber.StatusForbidden,
	domain.KindValidation:              fiber.StatusBadRequest,
	domain.KindUnauthorized:            fiber.StatusUnauthorized,
	domain.KindDepartmentNotConfigured: fiber.StatusInternalServerError,
}

// writeError traduce un fallo de caso de uso a la respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return c.Status(statusByKind[de.Kind]).JSON(dto.ErrorResponse{
			Code:             string(de.Kind),
			Message:          de.Error(),
			MissingFields:    de.MissingFields,
			MissingDocuments: de.MissingDocuments,
		})
	}
	if kind := domain.KindOf(err); kind != "" {
		return c.Status(statusByKind[kind]).JSON(dto.ErrorResponse{Code: string(kind), Message: err.Error()})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Internal server error"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "Invalid request body"})
}

// ErrorHandler manejador de Fiber para errores no tratados (rutas inexistentes, panics
// recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "INTERNAL"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = string(domain.KindNotFound)
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusBadRequest:
			code = "BAD_REQUEST"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}

// uuidParam id de la ruta; lo que no es uuid no existe.
func uuidParam(c *fiber.Ctx, notFound string) (string, error) {
	id := c.Params("id")
	if uuid.Validate(id) != nil {
		return "", domain.NotFound(notFound)
	}
	return id, nil
}
