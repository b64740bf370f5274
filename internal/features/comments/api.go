package comments

import (
	"go-studio-crm/internal/common/api"
	"go-studio-crm/internal/config"
	"go-studio-crm/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CommentApi struct {
	controller *CommentController
	config     *config.Config
}

func NewCommentApi(controller *CommentController, config *config.Config) api.Route {
	return &CommentApi{
		controller: controller,
		config:     config,
	}
}

func (h *CommentApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	comments := app.Group("/api/comments", auth)
	comments.Get("/:entityType/:entityId", h.controller.List)
	comments.Post("/:entityType/:entityId", h.controller.Add)

	notes := app.Group("/api/notes", auth)
	notes.Get("/:entityType/:entityId", h.controller.GetNote)
	notes.Put("/:entityType/:entityId", h.controller.UpdateNote)

	// Support tooling only; not reachable from normal UI flows.
	debug := app.Group("/api/debug/comments", auth)
	debug.Get("/:clientId/compare", h.controller.Compare)
	debug.Post("/:clientId/force-sync", h.controller.ForceSync)
	debug.Get("/:clientId/state", h.controller.DumpState)
}
