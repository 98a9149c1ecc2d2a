package serverutils

import (
	"context"
	"strings"

	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/pkg/token"
	"policfy-be/internal/repository/contract"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localUserId = "user_id"
	localRole   = "role"
)

// UserLookup loads the account a token belongs to. A nil user means it is gone.
type UserLookup func(ctx context.Context, id uuid.UUID) (*entity.User, error)

// NewJwtMiddleware verifies the bearer token and, when sessions is set,
// rejects tokens superseded by a newer login. When users is set the account is
// loaded on every request: a deleted account is rejected and the stored role
// replaces the one in the token.
func NewJwtMiddleware(tokens *token.Manager, sessions contract.SessionRepository, users UserLookup) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Not authorized, no token"))
		}

		claims, err := tokens.Parse(authHeader[7:])
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Not authorized, token failed"))
		}

		if sessions != nil {
			current, found, err := sessions.Get(ctx.UserContext(), claims.UserId)
			if err != nil {
				return err
			}
			if !found || current != claims.SessionId {
				return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Session expired. Please log in again"))
			}
		}

		role := claims.Role
		if users != nil {
			user, err := users(ctx.UserContext(), claims.UserId)
			if err != nil {
				return err
			}
			if user == nil {
				return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Not authorized, user not found"))
			}
			role = string(user.Role)
		}

		ctx.Locals(localUserId, claims.UserId.String())
		ctx.Locals(localRole, role)
		return ctx.Next()
	}
}

// RequireAdmin must run after the JWT middleware.
func RequireAdmin(ctx *fiber.Ctx) error {
	role, _ := ctx.Locals(localRole).(string)
	if role != string(entity.UserRoleAdmin) {
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(fiber.StatusForbidden, "Access denied: Admins only"))
	}
	return ctx.Next()
}

// CallerFromCtx reads the identity the JWT middleware attached to the request.
func CallerFromCtx(ctx *fiber.Ctx) (entity.Caller, error) {
	userIdStr, _ := ctx.Locals(localUserId).(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return entity.Caller{}, apperror.New(apperror.ErrUnauthorized, "Not authorized")
	}
	role, _ := ctx.Locals(localRole).(string)
	return entity.Caller{UserId: userId, Role: entity.UserRole(role)}, nil
}

// ParamUUID parses a path parameter, reporting a malformed id as not found.
func ParamUUID(ctx *fiber.Ctx, name string, notFoundMessage string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.New(apperror.ErrNotFound, notFoundMessage)
	}
	return id, nil
}
