package middlewares

import (
	"errors"

	"gst-billing-backend/logger"
	"gst-billing-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Fiber errors (use their status code + message)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"success": false, "message": fe.Message})
	}

	// 2) Validation errors (422 + per-field info)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make(map[string]string, len(ve))
		for _, f := range ve {
			out[f.Namespace()] = f.Tag()
		}
		msg := "validation failed"
		var se *services.Error
		if errors.As(err, &se) && se.Message != "" {
			msg = se.Message
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": msg,
			"errors":  out,
		})
	}

	// 3) Service error kinds
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrPermission):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrBusinessRule):
		status = fiber.StatusConflict
	}
	if status != fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{"success": false, "message": publicMessage(err)})
	}

	// 4) Unknown errors (500)
	log := logger.WithRequestID(RequestID(c))
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("internal error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"message": "internal server error",
	})
}

// publicMessage drops wrapping context so only the service's own message reaches the client.
func publicMessage(err error) string {
	var stockErr *services.InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr.Error()
	}
	var se *services.Error
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}
