package comments

import (
	common_models "go-studio-crm/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type CommentController struct {
	service CommentService
}

func NewCommentController(service CommentService) *CommentController {
	return &CommentController{service: service}
}

func entityParams(ctx *fiber.Ctx) (common_models.EntityType, string, error) {
	t := common_models.EntityType(ctx.Params("entityType"))
	if !t.Valid() {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "entityType must be lead or client")
	}
	id := ctx.Params("entityId")
	if id == "" {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "entityId is required")
	}
	return t, id, nil
}

func (c *CommentController) List(ctx *fiber.Ctx) error {
	t, id, err := entityParams(ctx)
	if err != nil {
		return err
	}

	comments := c.service.GetComments(ctx.UserContext(), t, id)
	return ctx.JSON(fiber.Map{"data": comments})
}

func (c *CommentController) Add(ctx *fiber.Ctx) error {
	t, id, err := entityParams(ctx)
	if err != nil {
		return err
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Text == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Comment text is required"})
	}

	comment, err := c.service.AddComment(ctx.UserContext(), t, id, body.Text)
	if err != nil {
		// State was rolled back; the caller keeps its input populated.
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": comment})
}

func (c *CommentController) GetNote(ctx *fiber.Ctx) error {
	t, id, err := entityParams(ctx)
	if err != nil {
		return err
	}

	note := c.service.GetNote(ctx.UserContext(), t, id)
	return ctx.JSON(fiber.Map{"data": note})
}

func (c *CommentController) UpdateNote(ctx *fiber.Ctx) error {
	t, id, err := entityParams(ctx)
	if err != nil {
		return err
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	// The write is debounced; the optimistic value is already visible.
	c.service.UpdateNote(t, id, body.Content)
	return ctx.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "scheduled"})
}

func (c *CommentController) Compare(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Diagnostics().Compare(ctx.UserContext(), ctx.Params("clientId")))
}

func (c *CommentController) ForceSync(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Diagnostics().ForceSync(ctx.UserContext(), ctx.Params("clientId")))
}

func (c *CommentController) DumpState(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Diagnostics().DumpState(ctx.UserContext(), ctx.Params("clientId")))
}
