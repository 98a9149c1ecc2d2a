package controller

import (
	"policfy-be/internal/dto"
	"policfy-be/internal/pkg/serverutils"
	"policfy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	CreateAdmin(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
	protect fiber.Handler
}

func NewUserController(service service.IUserService, protect fiber.Handler) IUserController {
	return &userController{service: service, protect: protect}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users", c.protect)
	h.Get("/profile", c.GetProfile)
	h.Get("/", serverutils.RequireAdmin, c.List)
	h.Post("/admin", serverutils.RequireAdmin, c.CreateAdmin)
	h.Put("/edit/:id", serverutils.RequireAdmin, c.Update)
	h.Delete("/:id", serverutils.RequireAdmin, c.Delete)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetProfile(ctx.UserContext(), caller)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User profile", res))
}

func (c *userController) List(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListUsers(ctx.UserContext(), caller)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Users", res))
}

func (c *userController) CreateAdmin(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateAdminRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.CreateAdmin(ctx.UserContext(), caller, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Admin created", res))
}

func (c *userController) Update(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := serverutils.ParamUUID(ctx, "id", "User not found")
	if err != nil {
		return err
	}

	var req dto.AdminUpdateUserRequest
	if err := serverutils.ParseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.UpdateUser(ctx.UserContext(), caller, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User updated", res))
}

func (c *userController) Delete(ctx *fiber.Ctx) error {
	caller, err := serverutils.CallerFromCtx(ctx)
	if err != nil {
		return err
	}

	id, err := serverutils.ParamUUID(ctx, "id", "User not found")
	if err != nil {
		return err
	}

	if err := c.service.DeleteUser(ctx.UserContext(), caller, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User removed", nil))
}
