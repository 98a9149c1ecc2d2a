package controller

import (
	"context"
	"time"

	"policfy-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger func(ctx context.Context) error

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	checks map[string]Pinger
}

// NewHealthController takes named checks; nil entries are skipped.
func NewHealthController(checks map[string]Pinger) IHealthController {
	return &healthController{checks: checks}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/healthz", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	checkCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(c.checks))
	healthy := true
	for name, ping := range c.checks {
		if ping == nil {
			continue
		}
		if err := ping(checkCtx); err != nil {
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(&serverutils.BaseResponse[map[string]string]{
			Success: false,
			Code:    fiber.StatusServiceUnavailable,
			Message: "Degraded",
			Data:    status,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("OK", status))
}
