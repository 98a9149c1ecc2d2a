package serverutils

import (
	"policfy-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ParseBody decodes the JSON body into req and validates it.
func ParseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.New(apperror.ErrValidation, "Invalid request body")
	}
	return ValidateRequest(req)
}
