package controller

import (
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/pkg/serverutils"
	internalWS "policfy-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type ILiveController interface {
	RegisterRoutes(r fiber.Router)
	Upgrade(ctx *fiber.Ctx) error
}

type liveController struct {
	hub     *internalWS.Hub
	protect fiber.Handler
	logger  logger.ILogger
}

func NewLiveController(hub *internalWS.Hub, protect fiber.Handler, logger logger.ILogger) ILiveController {
	return &liveController{hub: hub, protect: protect, logger: logger}
}

func (c *liveController) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", tokenFromQuery, c.protect, c.Upgrade)
}

// tokenFromQuery lets browsers, which cannot set headers on a websocket
// handshake, pass the bearer token as ?token=.
func tokenFromQuery(ctx *fiber.Ctx) error {
	if ctx.Get(fiber.HeaderAuthorization) == "" {
		if token := ctx.Query("token"); token != "" {
			ctx.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
	}
	return ctx.Next()
}

func (c *liveController) Upgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Info("LIVE", "Starting WebSocket session", map[string]interface{}{"user_id": caller.UserId.String()})
		internalWS.ServeWs(c.hub, conn, caller.UserId)
		c.logger.Info("LIVE", "WebSocket session ended", map[string]interface{}{"user_id": caller.UserId.String()})
	})(ctx)
}
