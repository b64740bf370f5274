package notification

import (
	"go-studio-crm/internal/common/api"
	"go-studio-crm/internal/config"
	"go-studio-crm/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	hub        *Hub
	config     *config.Config
}

func NewNotificationApi(controller *NotificationController, hub *Hub, config *config.Config) api.Route {
	return &NotificationApi{
		controller: controller,
		hub:        hub,
		config:     config,
	}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	group := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Get("/unread-count", h.controller.GetUnreadCount)
	group.Put("/:id/read", h.controller.MarkAsRead)
	group.Post("/mark-all-read", h.controller.MarkAllAsRead)

	app.Get("/api/ws/notifications", websocket.New(h.hub.HandleConnection))
}
