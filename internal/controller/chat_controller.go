package controller

import (
	"bufio"
	"encoding/json"
	"fmt"

	"edudash-be/internal/dto"
	"edudash-be/internal/pkg/logger"
	"edudash-be/internal/pkg/serverutils"
	"edudash-be/internal/service"
	"edudash-be/pkg/agent"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Stream(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	logger      logger.ILogger
}

func NewChatController(chatService service.IChatService, log logger.ILogger) IChatController {
	return &chatController{
		chatService: chatService,
		logger:      log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("stream", c.Stream)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

// Stream runs one assistant turn and replays its events as SSE frames.
func (c *chatController) Stream(ctx *fiber.Ctx) error {
	userId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	var req dto.StreamChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	if req.History[len(req.History)-1].Role != "user" {
		return fiber.NewError(fiber.StatusBadRequest, "history must end with a user message")
	}

	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The request ctx is recycled by fiber once the handler returns; the
	// stream writer runs after that, so everything it needs is captured
	// up front.
	reqCtx := ctx.Context()
	chatSvc := c.chatService
	log := c.logger

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		events := make(chan agent.Event, 32)

		go func() {
			defer close(events)
			if err := chatSvc.StreamChat(reqCtx, userId, &req, events); err != nil {
				log.Warn("ChatController", "Stream turn ended with error", map[string]interface{}{"error": err.Error()})
			}
		}()

		for evt := range events {
			payload, err := json.Marshal(toStreamEvent(evt))
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if err := w.Flush(); err != nil {
				// Client went away; drain so the producer can finish.
				for range events {
				}
				return
			}
		}
	}))

	return nil
}

func toStreamEvent(evt agent.Event) dto.StreamEvent {
	out := dto.StreamEvent{
		Type:    string(evt.Type),
		Token:   evt.Token,
		Message: evt.Message,
	}
	if evt.ChatID != uuid.Nil {
		chatId := evt.ChatID
		out.ChatId = &chatId
	}
	if !evt.At.IsZero() {
		at := evt.At
		out.At = &at
	}
	return out
}

func (c *chatController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.ListChats(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list chats", res))
}

func (c *chatController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid chat id")
	}

	res, err := c.chatService.GetChatWithMessages(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "chat not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show chat", res))
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.CallerID(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid chat id")
	}

	if err := c.chatService.DeleteChat(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete chat", nil))
}
