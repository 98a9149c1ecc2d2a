package controller

import (
	"net/url"

	"policfy-be/internal/dto"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/pkg/serverutils"
	"policfy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
	ExchangeCode(ctx *fiber.Ctx) error
}

type oauthController struct {
	service   service.IOAuthService
	clientURL string
	logger    logger.ILogger
}

func NewOAuthController(service service.IOAuthService, clientURL string, logger logger.ILogger) IOAuthController {
	return &oauthController{service: service, clientURL: clientURL, logger: logger}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/google")
	h.Get("/", c.Login)
	h.Get("/callback", c.Callback)
	h.Post("/", c.ExchangeCode)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	loginURL, err := c.service.GetLoginURL()
	if err != nil {
		return err
	}
	return ctx.Redirect(loginURL, fiber.StatusTemporaryRedirect)
}

// Callback always redirects back to the client, with either a token or an error code.
func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return ctx.Redirect(c.clientURL+"/login?error=GoogleAuthFailed", fiber.StatusTemporaryRedirect)
	}

	res, err := c.service.HandleCallback(ctx.UserContext(), ctx.Query("state"), code)
	if err != nil {
		c.logger.Warn("OAUTH", "Google callback failed", map[string]interface{}{"error": err.Error()})
		return ctx.Redirect(c.clientURL+"/login?error=GoogleAuthFailed", fiber.StatusTemporaryRedirect)
	}

	return ctx.Redirect(c.clientURL+"/login?token="+url.QueryEscape(res.Token), fiber.StatusTemporaryRedirect)
}

func (c *oauthController) ExchangeCode(ctx *fiber.Ctx) error {
	var req dto.GoogleCodeRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ExchangePopupCode(ctx.UserContext(), req.Code)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}
