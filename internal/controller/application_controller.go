package controller

import (
	"policfy-be/internal/dto"
	"policfy-be/internal/pkg/serverutils"
	"policfy-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IApplicationController interface {
	RegisterRoutes(r fiber.Router)
	Apply(ctx *fiber.Ctx) error
	ListForUser(ctx *fiber.Ctx) error
	ListAll(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type applicationController struct {
	service service.IApplicationService
	protect fiber.Handler
}

func NewApplicationController(service service.IApplicationService, protect fiber.Handler) IApplicationController {
	return &applicationController{service: service, protect: protect}
}

func (c *applicationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/applications", c.protect)
	h.Post("/apply", c.Apply)
	h.Get("/user/:userId", c.ListForUser)
	h.Get("/", serverutils.RequireAdmin, c.ListAll)
	h.Put("/:id/status", serverutils.RequireAdmin, c.UpdateStatus)
	h.Delete("/:id", c.Cancel)
}

func (c *applicationController) Apply(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.ApplyRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Apply(ctx.UserContext(), caller, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Application submitted", res))
}

func (c *applicationController) ListForUser(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	// No account has a malformed id, so it owns no applications.
	userId, err := uuid.Parse(ctx.Params("userId"))
	if err != nil {
		return ctx.JSON(serverutils.SuccessResponse("Applications", []*dto.UserApplicationResponse{}))
	}

	res, err := c.service.ListForUser(ctx.UserContext(), caller, userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Applications", res))
}

func (c *applicationController) ListAll(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListAll(ctx.UserContext(), caller)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Applications", res))
}

func (c *applicationController) UpdateStatus(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := serverutils.ParamUUID(ctx, "id", "Application not found")
	if err != nil {
		return err
	}

	var req dto.UpdateApplicationStatusRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.UpdateStatus(ctx.UserContext(), caller, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Application status updated", res))
}

func (c *applicationController) Cancel(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := serverutils.ParamUUID(ctx, "id", "Application not found")
	if err != nil {
		return err
	}

	if err := c.service.Cancel(ctx.UserContext(), caller, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Application deleted", nil))
}
