package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wjyergin98/autonomous-auto-agent/internal/dto"
	"github.com/wjyergin98/autonomous-auto-agent/internal/pkg/serverutils"
	"github.com/wjyergin98/autonomous-auto-agent/internal/service"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

type IWatchController interface {
	RegisterRoutes(r fiber.Router)
	Ensure(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type watchController struct {
	service service.IWatchService
}

func NewWatchController(service service.IWatchService) IWatchController {
	return &watchController{service: service}
}

func (c *watchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/watch/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Ensure)
}

func (c *watchController) Ensure(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)

	var req dto.EnsureWatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	spec := store.WatchSpec{
		GoalType:   req.GoalType,
		MustHave:   req.MustHave,
		Acceptable: req.Acceptable,
		Reject:     req.Reject,
		Sources:    req.Sources,
		Cadence:    req.Cadence,
		Geography:  req.Geography,
		BudgetHint: req.BudgetHint,
	}

	ensured, created, err := c.service.Ensure(ctx.Context(), userIdStr, spec)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ensure watch", dto.EnsureWatchResponse{
		Watch:   ensured,
		Created: created,
	}))
}

func (c *watchController) List(ctx *fiber.Ctx) error {
	watches, err := c.service.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list watches", dto.ListWatchesResponse{Watches: watches}))
}
