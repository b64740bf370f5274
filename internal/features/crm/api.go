package crm

import (
	"go-studio-crm/internal/common/api"
	"go-studio-crm/internal/config"
	"go-studio-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CRMApi struct {
	controller *CRMController
	config     *config.Config
}

func NewCRMApi(controller *CRMController, config *config.Config) api.Route {
	return &CRMApi{
		controller: controller,
		config:     config,
	}
}

func (h *CRMApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	leads := app.Group("/api/leads", auth)
	leads.Get("/", h.controller.ListLeads)
	leads.Post("/", h.controller.CreateLead)
	leads.Get("/:id", h.controller.GetLead)
	leads.Post("/:id/convert", h.controller.ConvertLead)

	clients := app.Group("/api/clients", auth)
	clients.Get("/", h.controller.ListClients)
	clients.Post("/", h.controller.CreateClient)
	clients.Get("/:id", h.controller.GetClient)
}
