package export

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ExportController struct {
	service ExportService
}

func NewExportController(service ExportService) *ExportController {
	return &ExportController{service: service}
}

func (c *ExportController) Run(ctx *fiber.Ctx) error {
	result, err := c.service.Run(ctx.UserContext())
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": result})
}
