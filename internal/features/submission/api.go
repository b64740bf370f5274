package submission

import (
	"go-studio-crm/internal/common/api"
	"go-studio-crm/internal/config"
	"go-studio-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SubmissionApi struct {
	controller *SubmissionController
	config     *config.Config
}

func NewSubmissionApi(controller *SubmissionController, config *config.Config) api.Route {
	return &SubmissionApi{
		controller: controller,
		config:     config,
	}
}

func (h *SubmissionApi) Setup(app *fiber.App) {
	group := app.Group("/api/submissions", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Post("/", h.controller.Create)
	group.Get("/:id", h.controller.Get)
	group.Put("/:id/status", h.controller.ChangeStatus)
	group.Post("/:id/images", h.controller.RegisterImage)
	group.Delete("/:id/images/:imageId", h.controller.DeleteImage)
	group.Post("/:id/thread", h.controller.AddThreadEntry)
}
