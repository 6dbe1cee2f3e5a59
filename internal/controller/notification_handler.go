package controller

import (
	"edudash-be/internal/pkg/serverutils"
	ws "edudash-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// NotificationHandler upgrades authenticated clients onto the hub.
type NotificationHandler struct {
	hub *ws.Hub
}

func NewNotificationHandler(hub *ws.Hub) *NotificationHandler {
	return &NotificationHandler{hub: hub}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/notifications/v1")
	g.Use(serverutils.JwtMiddleware)
	g.Use("ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	g.Get("ws", websocket.New(func(conn *websocket.Conn) {
		userIdStr, ok := conn.Locals("user_id").(string)
		if !ok {
			conn.Close()
			return
		}
		userId, err := uuid.Parse(userIdStr)
		if err != nil {
			conn.Close()
			return
		}
		ws.ServeWs(h.hub, conn, userId)
	}))
}
