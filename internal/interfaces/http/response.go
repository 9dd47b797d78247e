package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/Pharmahub-api/internal/application/activity"
	"github.com/jhoicas/Pharmahub-api/internal/application/dto"
	"github.com/jhoicas/Pharmahub-api/internal/domain"
	"github.com/jhoicas/Pharmahub-api/internal/domain/entity"
	"github.com/jhoicas/Pharmahub-api/pkg/logger"
)

// ── Respuestas exitosas ─────────────────────────────────────────────────────

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dto.Envelope{Success: true, Data: data})
}

func okMessage(c *fiber.Ctx, data any, msg string) error {
	return c.Status(fiber.StatusOK).JSON(dto.Envelope{Success: true, Data: data, Message: msg})
}

func okPage(c *fiber.Ctx, items any, p dto.Pagination) error {
	return c.Status(fiber.StatusOK).JSON(dto.Envelope{Success: true, Data: items, Pagination: &p})
}

func fail(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Error: msg})
}

// ── Errores ────────────────────────────────────────────────────────────────

// NewErrorHandler traduce los errores devueltos por los handlers a status y cuerpo JSON.
// En producción los 500 no exponen el texto interno.
func NewErrorHandler(log *logger.Logger, env string) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	production := strings.EqualFold(env, "production")
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
			if production {
				body.Error = "error interno del servidor"
			}
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	var missing *domain.MissingFieldsError
	var fe *fiber.Error
	switch {
	case dto.IsValidationError(err):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code: "VALIDATION", Error: "datos inválidos", Details: dto.ValidationDetails(err),
		}
	case errors.As(err, &missing):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{
			Code: "MISSING_REQUIRED_FIELD", Error: err.Error(), Missing: missing.Missing,
		}
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INVALID_STATE_TRANSITION", Error: err.Error()}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Error: err.Error()}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Error: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "INVALID_INPUT", Error: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Error: err.Error()}
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHENTICATED", Error: err.Error()}
	case errors.Is(err, domain.ErrAccountDeactivated):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "ACCOUNT_DEACTIVATED", Error: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Error: err.Error()}
	case errors.As(err, &fe):
		return fe.Code, dto.ErrorResponse{Code: codeFor(fe.Code), Error: fe.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Error: err.Error()}
}

// codeFor código a partir del status para errores propios de Fiber (404 de ruta, 413, 405...).
func codeFor(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "INVALID_BODY"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusRequestEntityTooLarge:
		return "FILE_TOO_LARGE"
	}
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

var errInvalidBody = fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")

// ── Contexto de la petición ────────────────────────────────────────────────

// Los strings de Fiber apuntan a buffers que se reutilizan; lo que sobrevive a la
// petición (auditoría, almacenamiento) se copia.

// actorFrom quién ejecuta la operación, para auditoría.
func actorFrom(c *fiber.Ctx) activity.Actor {
	return activity.Actor{
		ID:        GetAccountID(c),
		Role:      entity.Role(GetRole(c)),
		IPAddress: utils.CopyString(c.IP()),
		UserAgent: utils.CopyString(c.Get(fiber.HeaderUserAgent)),
	}
}

func paramID(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("id"))
}
