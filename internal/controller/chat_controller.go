package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"course-chatbot-be/internal/dto"
	"course-chatbot-be/internal/pkg/serverutils"
	"course-chatbot-be/internal/service"
	"course-chatbot-be/pkg/nonce"
	"course-chatbot-be/pkg/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	WidgetBootstrap(ctx *fiber.Ctx) error
	WidgetChat(ctx *fiber.Ctx) error
	WidgetReset(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	nonceIssuer *nonce.Issuer
}

func NewChatController(chatService service.IChatService, nonceIssuer *nonce.Issuer) IChatController {
	return &chatController{
		chatService: chatService,
		nonceIssuer: nonceIssuer,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("", c.SendChat)
	h.Post("widget/bootstrap", c.WidgetBootstrap)
	h.Post("widget", c.WidgetChat)
	h.Post("widget/reset", c.WidgetReset)
}

// SendChat answers with the bare `{message, threadId}` object; failures on
// this endpoint render as `{error}`, not the widget envelope.
func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if strings.Contains(ctx.Get(fiber.HeaderAccept), "text/event-stream") {
		return c.sendChatStream(ctx, &req)
	}

	var collector stream.Collector
	res, err := c.chatService.SendChat(ctx.Context(), &req, &collector)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

// sendChatStream relays the turn as server-sent events. The handler returns
// while the body writer is still running, so the request payload is copied
// out of the fiber context first.
func (c *chatController) sendChatStream(ctx *fiber.Ctx, req *dto.SendChatRequest) error {
	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	request := *req
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		// a failed write or flush means the client went away; cancel so
		// the orchestrator's poll loop stops instead of running the
		// exchange to completion
		streamCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		emitter := stream.EmitterFunc(func(f stream.Frame) error {
			payload, err := json.Marshal(f)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				cancel()
				return err
			}
			if err := w.Flush(); err != nil {
				cancel()
				return err
			}
			return nil
		})

		// errors are delivered in-band as apology frames
		_, _ = c.chatService.SendChat(streamCtx, &request, emitter)
	}))

	return nil
}

func (c *chatController) WidgetBootstrap(ctx *fiber.Ctx) error {
	token, sessionID, err := c.nonceIssuer.Issue("")
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Widget session created", dto.WidgetBootstrapResponse{
		Nonce:     token,
		SessionId: sessionID,
	}))
}

func (c *chatController) WidgetChat(ctx *fiber.Ctx) error {
	var req dto.WidgetChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return widgetValidationError(ctx, err)
	}

	sessionID, err := c.nonceIssuer.Validate(req.Nonce)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid or expired nonce"))
	}

	res, err := c.chatService.SendWidgetChat(ctx.Context(), sessionID, req.Message)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Widget chat completed", res))
}

func (c *chatController) WidgetReset(ctx *fiber.Ctx) error {
	var req dto.WidgetResetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return widgetValidationError(ctx, err)
	}

	sessionID, err := c.nonceIssuer.Validate(req.Nonce)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid or expired nonce"))
	}

	if err := c.chatService.ResetSession(ctx.Context(), sessionID); err != nil {
		return err
	}

	// a reset mints a fresh session so the old nonce stops resolving state
	token, newSession, err := c.nonceIssuer.Issue("")
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Widget session reset", dto.WidgetBootstrapResponse{
		Nonce:     token,
		SessionId: newSession,
	}))
}

// widgetValidationError keeps the widget's `{success, ...}` envelope on
// validation failures instead of the bare `{error}` shape the chat
// endpoint uses.
func widgetValidationError(ctx *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(serverutils.ErrorResponse(fiberErr.Code, fiberErr.Message))
	}
	return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
}
