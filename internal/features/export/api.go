package export

import (
	"go-studio-crm/internal/common/api"
	"go-studio-crm/internal/config"
	"go-studio-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ExportApi struct {
	controller *ExportController
	config     *config.Config
}

func NewExportApi(controller *ExportController, config *config.Config) api.Route {
	return &ExportApi{
		controller: controller,
		config:     config,
	}
}

func (h *ExportApi) Setup(app *fiber.App) {
	group := app.Group("/api/export", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/run", h.controller.Run)
}
