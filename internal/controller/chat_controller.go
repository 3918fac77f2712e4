package controller

import (
	"context"
	"encoding/json"
	"time"

	"gym-agent-be/internal/dto"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/internal/pkg/serverutils"
	"gym-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Query(ctx *fiber.Ctx) error
	ChatSocket(conn *websocket.Conn)
}

type chatController struct {
	service service.IChatService
	logger  logger.ILogger
}

func NewChatController(service service.IChatService, log logger.ILogger) IChatController {
	return &chatController{service: service, logger: log}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", c.Chat)
	r.Post("/query", c.Query)

	ws := r.Group("/chat/ws")
	ws.Use(func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("", websocket.New(c.ChatSocket))
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *chatController) Query(ctx *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Query(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

// ChatSocket answers every text frame {query, conversation_id?} with a chat
// response frame, or an {error} frame, until the client disconnects. Turns run
// under a context that is cancelled as soon as the connection stops reading.
func (c *chatController) ChatSocket(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := make(chan []byte)
	go c.readFrames(ctx, cancel, conn, frames)

	for raw := range frames {
		if err := conn.WriteJSON(c.answer(ctx, raw)); err != nil {
			c.logger.Warn("ChatController", "Failed to write websocket reply", map[string]interface{}{"error": err.Error()})
			cancel()
			_ = conn.SetReadDeadline(time.Now())
			break
		}
	}
	// conn goes back to a pool when this handler returns, so the reader must be gone first.
	for range frames {
	}
}

func (c *chatController) readFrames(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, frames chan<- []byte) {
	defer close(frames)
	defer cancel()
	for {
		messageType, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("ChatController", "Websocket closed unexpectedly", map[string]interface{}{"error": err.Error()})
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		select {
		case frames <- raw:
		case <-ctx.Done():
			return
		}
	}
}

func (c *chatController) answer(ctx context.Context, raw []byte) interface{} {
	var req dto.ChatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return dto.ChatSocketError{Error: "invalid message: " + err.Error()}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return dto.ChatSocketError{Error: err.Error()}
	}
	res, err := c.service.Chat(ctx, &req)
	if err != nil {
		return dto.ChatSocketError{Error: err.Error()}
	}
	return res
}
