package controller

import (
	"policfy-be/internal/dto"
	"policfy-be/internal/pkg/serverutils"
	"policfy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPolicyController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type policyController struct {
	service service.IPolicyService
	protect fiber.Handler
}

func NewPolicyController(service service.IPolicyService, protect fiber.Handler) IPolicyController {
	return &policyController{service: service, protect: protect}
}

func (c *policyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/policies", c.protect)
	h.Get("/", c.List)
	h.Get("/:id", c.Show)
	h.Post("/", serverutils.RequireAdmin, c.Create)
	h.Put("/:id", serverutils.RequireAdmin, c.Update)
	h.Delete("/:id", serverutils.RequireAdmin, c.Delete)
}

func (c *policyController) Create(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.CreatePolicyRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), caller, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Policy added successfully", res))
}

func (c *policyController) List(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Policies", res))
}

func (c *policyController) Show(ctx *fiber.Ctx) error {
	id, err := serverutils.ParamUUID(ctx, "id", "Policy not found")
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Policy", res))
}

func (c *policyController) Update(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := serverutils.ParamUUID(ctx, "id", "Policy not found")
	if err != nil {
		return err
	}

	var req dto.UpdatePolicyRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), caller, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Policy updated successfully", res))
}

func (c *policyController) Delete(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := serverutils.ParamUUID(ctx, "id", "Policy not found")
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.UserContext(), caller, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Policy deleted", nil))
}
