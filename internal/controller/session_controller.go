package controller

import (
	"ai-webchat-be/internal/apperror"
	"ai-webchat-be/internal/dto"
	"ai-webchat-be/internal/pkg/serverutils"
	"ai-webchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	TitleHistory(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	SharedHistory(ctx *fiber.Ctx) error
	Share(ctx *fiber.Ctx) error
	Unshare(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session")
	// Share links are consumed without a token; the session id is the capability.
	h.Get("history/:sessionId", c.SharedHistory)
	h.Use(serverutils.JwtMiddleware)
	h.Post("new", c.Create)
	h.Get("share/:sessionId", c.Share)
	h.Put("unshare/:sessionId", c.Unshare)
	h.Delete("deleteSession", c.Delete)
	h.Get("", c.TitleHistory)
	h.Get(":sessionId", c.History)
	h.Put(":sessionId", c.Rename)

	p := r.Group("/sessions", serverutils.JwtMiddleware)
	p.Get(":userId", c.ListSessions)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *sessionController) TitleHistory(ctx *fiber.Ctx) error {
	userId := ctx.Query("userId", "")
	if userId == "" {
		return apperror.Validation("userId is required")
	}

	res, err := c.sessionService.TitleHistory(ctx.Context(), userId)
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return ctx.JSON(dto.MessageResponse{Message: "No sessions found for the given userId"})
	}
	return ctx.JSON(res)
}

func (c *sessionController) ListSessions(ctx *fiber.Ctx) error {
	userId := ctx.Params("userId")
	limit := ctx.QueryInt("limit", 10)
	skip := ctx.QueryInt("skip", 0)

	res, err := c.sessionService.ListSessions(ctx.Context(), userId, limit, skip)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	sessionId, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.GetHistory(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) SharedHistory(ctx *fiber.Ctx) error {
	sessionId, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.GetSharedHistory(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) Share(ctx *fiber.Ctx) error {
	sessionId, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Share(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) Unshare(ctx *fiber.Ctx) error {
	sessionId, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	res, err := c.sessionService.Unshare(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) Rename(ctx *fiber.Ctx) error {
	sessionId, err := parseSessionId(ctx)
	if err != nil {
		return err
	}

	var req dto.RenameSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Rename(ctx.Context(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	sessionId, parseErr := uuid.Parse(ctx.Query("sessionId", ""))
	if parseErr != nil {
		return apperror.Validation("Invalid session id")
	}

	res, err := c.sessionService.Delete(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func parseSessionId(ctx *fiber.Ctx) (uuid.UUID, error) {
	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return uuid.Nil, apperror.Validation("Invalid session id")
	}
	return sessionId, nil
}
