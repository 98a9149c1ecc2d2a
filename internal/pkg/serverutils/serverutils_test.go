package serverutils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/pkg/token"
	"policfy-be/internal/repository/memory"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, resp *http.Response) BaseResponse[json.RawMessage] {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body BaseResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"duplicate", apperror.New(apperror.ErrDuplicateApplication, "You have already applied for this policy"), 400, "You have already applied for this policy"},
		{"invalid state", apperror.New(apperror.ErrInvalidState, "Cannot delete an application that has already been approved"), 400, "Cannot delete an application that has already been approved"},
		{"forbidden", apperror.New(apperror.ErrForbidden, "Access denied: Admins only"), 403, "Access denied: Admins only"},
		{"not found wrapped", fmt.Errorf("cancel: %w", apperror.New(apperror.ErrNotFound, "Application not found")), 404, "Application not found"},
		{"unauthorized", apperror.New(apperror.ErrUnauthorized, "Invalid credentials"), 401, "Invalid credentials"},
		{"fiber error", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), 405, "nope"},
		{"opaque", errors.New("pq: connection refused"), 500, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware(logger.NewNop()))
			app.Get("/", func(ctx *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			body := decode(t, resp)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

type jwtFixture struct {
	app      *fiber.App
	tokens   *token.Manager
	sessions interface {
		Save(ctx context.Context, userId uuid.UUID, sessionId string, ttl time.Duration) error
	}
}

func newJwtFixture() *jwtFixture {
	tokens := token.NewManager("test-secret", time.Hour)
	sessions := memory.NewSessionRepository()

	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNop()))
	protect := NewJwtMiddleware(tokens, sessions, nil)
	app.Get("/me", protect, func(ctx *fiber.Ctx) error {
		caller, err := CallerFromCtx(ctx)
		if err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", caller.UserId.String()))
	})
	app.Get("/admin", protect, RequireAdmin, func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	return &jwtFixture{app: app, tokens: tokens, sessions: sessions}
}

func (f *jwtFixture) login(t *testing.T, userId uuid.UUID, role entity.UserRole) string {
	t.Helper()
	signed, sid, err := f.tokens.Issue(userId, string(role))
	require.NoError(t, err)
	require.NoError(t, f.sessions.Save(context.Background(), userId, sid, time.Hour))
	return signed
}

func (f *jwtFixture) get(t *testing.T, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestJwtMiddleware(t *testing.T) {
	f := newJwtFixture()
	userId := uuid.New()

	t.Run("missing header", func(t *testing.T) {
		resp := f.get(t, "/me", "")
		assert.Equal(t, 401, resp.StatusCode)
		assert.Equal(t, "Not authorized, no token", decode(t, resp).Message)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := f.get(t, "/me", "Bearer not-a-jwt")
		assert.Equal(t, 401, resp.StatusCode)
		assert.Equal(t, "Not authorized, token failed", decode(t, resp).Message)
	})

	t.Run("valid token", func(t *testing.T) {
		signed := f.login(t, userId, entity.UserRoleUser)
		resp := f.get(t, "/me", "Bearer "+signed)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, `"`+userId.String()+`"`, string(decode(t, resp).Data))
	})

	t.Run("superseded session", func(t *testing.T) {
		first := f.login(t, userId, entity.UserRoleUser)
		_ = f.login(t, userId, entity.UserRoleUser)

		resp := f.get(t, "/me", "Bearer "+first)
		assert.Equal(t, 401, resp.StatusCode)
		assert.Equal(t, "Session expired. Please log in again", decode(t, resp).Message)
	})
}

func TestRequireAdmin(t *testing.T) {
	f := newJwtFixture()

	user := f.login(t, uuid.New(), entity.UserRoleUser)
	resp := f.get(t, "/admin", "Bearer "+user)
	assert.Equal(t, 403, resp.StatusCode)
	assert.Equal(t, "Access denied: Admins only", decode(t, resp).Message)

	admin := f.login(t, uuid.New(), entity.UserRoleAdmin)
	resp = f.get(t, "/admin", "Bearer "+admin)
	assert.Equal(t, 204, resp.StatusCode)
}

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestParseBody(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNop()))
	app.Post("/", func(ctx *fiber.Ctx) error {
		var req signupRequest
		if err := ParseBody(ctx, &req); err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", req.Email))
	})

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"email":`)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Invalid request body", decode(t, resp).Message)

	resp = post(`{"email":"nope","password":"12"}`)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "email must be a valid email; password must be at least 6", decode(t, resp).Message)

	resp = post(`{"email":"alice@example.com","password":"secret1"}`)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestParamUUID(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNop()))
	app.Get("/:id", func(ctx *fiber.Ctx) error {
		id, err := ParamUUID(ctx, "id", "Application not found")
		if err != nil {
			return err
		}
		return ctx.SendString(id.String())
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	id := uuid.New()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/"+id.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestJwtMiddleware_ResolvesAccount(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	accounts := map[uuid.UUID]*entity.User{}
	lookup := func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
		return accounts[id], nil
	}

	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNop()))
	app.Get("/admin", NewJwtMiddleware(tokens, nil, lookup), RequireAdmin, func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	get := func(signed string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	adminId := uuid.New()
	signed, _, err := tokens.Issue(adminId, string(entity.UserRoleAdmin))
	require.NoError(t, err)

	accounts[adminId] = &entity.User{Id: adminId, Role: entity.UserRoleAdmin}
	assert.Equal(t, 204, get(signed).StatusCode)

	// Demoted: the stored role wins over the token claim.
	accounts[adminId] = &entity.User{Id: adminId, Role: entity.UserRoleUser}
	assert.Equal(t, 403, get(signed).StatusCode)

	delete(accounts, adminId)
	resp := get(signed)
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "Not authorized, user not found", decode(t, resp).Message)
}
