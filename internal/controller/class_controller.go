package controller

import (
	"gym-agent-be/internal/dto"
	"gym-agent-be/internal/pkg/serverutils"
	"gym-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IClassController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
}

type classController struct {
	service service.IClassService
	auth    fiber.Handler
}

// NewClassController guards class creation with auth; listing stays public.
func NewClassController(service service.IClassService, auth fiber.Handler) IClassController {
	return &classController{service: service, auth: auth}
}

func (c *classController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/classes")
	h.Get("", c.GetAll)
	h.Post("", c.auth, c.Create)
}

func (c *classController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateGymClassRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *classController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
