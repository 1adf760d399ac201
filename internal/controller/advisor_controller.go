package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wjyergin98/autonomous-auto-agent/internal/dto"
	"github.com/wjyergin98/autonomous-auto-agent/internal/pkg/serverutils"
	"github.com/wjyergin98/autonomous-auto-agent/internal/service"
)

type IAdvisorController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	SendTurn(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type advisorController struct {
	service service.IAdvisorService
}

func NewAdvisorController(service service.IAdvisorService) IAdvisorController {
	return &advisorController{service: service}
}

func (c *advisorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/advisor/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/sessions", c.GetAllSessions)
	h.Post("/sessions", c.CreateSession)
	h.Get("/sessions/:id", c.GetSession)
	h.Post("/turn", c.SendTurn)
	h.Delete("/sessions/:id", c.DeleteSession)
}

func (c *advisorController) CreateSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateSession(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *advisorController) GetAllSessions(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetAllSessions(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all sessions", res))
}

func (c *advisorController) GetSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.service.GetSession(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *advisorController) SendTurn(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SendTurnRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendTurn(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process turn", res))
}

func (c *advisorController) DeleteSession(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	idParam := ctx.Params("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	if err := c.service.DeleteSession(ctx.Context(), userId, &dto.DeleteSessionRequest{SessionId: id}); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete session", nil))
}
