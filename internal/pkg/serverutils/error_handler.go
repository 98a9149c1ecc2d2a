package serverutils

import (
	"errors"

	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

var statusByKind = []struct {
	kind error
	code int
}{
	{apperror.ErrDuplicateApplication, fiber.StatusBadRequest},
	{apperror.ErrInvalidState, fiber.StatusBadRequest},
	{apperror.ErrValidation, fiber.StatusBadRequest},
	{apperror.ErrConflict, fiber.StatusBadRequest},
	{apperror.ErrUnauthorized, fiber.StatusUnauthorized},
	{apperror.ErrForbidden, fiber.StatusForbidden},
	{apperror.ErrNotFound, fiber.StatusNotFound},
}

// StatusCode maps an error to the HTTP status it should produce.
func StatusCode(err error) int {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.code
		}
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware renders handler errors as a BaseResponse. Unclassified
// errors become an opaque 500 and are logged.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := StatusCode(err)
		message := apperror.Message(err, err.Error())

		if code == fiber.StatusInternalServerError {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"error":  err.Error(),
				"method": ctx.Method(),
				"path":   ctx.Path(),
			})
			message = "Internal server error"
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
