package controller

import (
	"policfy-be/internal/pkg/serverutils"
	"policfy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDashboardController interface {
	RegisterRoutes(r fiber.Router)
	UserStats(ctx *fiber.Ctx) error
	AdminStats(ctx *fiber.Ctx) error
}

type dashboardController struct {
	service service.IDashboardService
	protect fiber.Handler
}

func NewDashboardController(service service.IDashboardService, protect fiber.Handler) IDashboardController {
	return &dashboardController{service: service, protect: protect}
}

func (c *dashboardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/dashboard", c.protect)
	h.Get("/user-stats", c.UserStats)
	h.Get("/admin-stats", serverutils.RequireAdmin, c.AdminStats)
}

func (c *dashboardController) UserStats(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.UserStats(ctx.UserContext(), caller)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User dashboard", res))
}

func (c *dashboardController) AdminStats(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.AdminStats(ctx.UserContext(), caller)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Admin dashboard", res))
}
