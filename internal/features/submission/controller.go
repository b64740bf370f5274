package submission

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type SubmissionController struct {
	service SubmissionService
}

func NewSubmissionController(service SubmissionService) *SubmissionController {
	return &SubmissionController{service: service}
}

func (c *SubmissionController) Create(ctx *fiber.Ctx) error {
	var sub Submission
	if err := ctx.BodyParser(&sub); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if sub.ClientID == "" || sub.Title == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "client_id and title are required"})
	}

	if err := c.service.Create(ctx.UserContext(), &sub); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": sub})
}

func (c *SubmissionController) Get(ctx *fiber.Ctx) error {
	sub, err := c.service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Submission not found"})
	}

	// The thread is trimmed per viewer tier; default is the full admin view.
	viewer := Tier(ctx.Query("viewer", string(TierAdmin)))
	if !viewer.Valid() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid viewer tier"})
	}
	sub.Thread = c.service.VisibleThread(sub, viewer)
	return ctx.JSON(fiber.Map{"data": sub})
}

func (c *SubmissionController) List(ctx *fiber.Ctx) error {
	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)
	if page < 1 {
		page = 1
	}

	subs, err := c.service.List(ctx.UserContext(), ctx.Query("client_id"), limit, (page-1)*limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": subs})
}

func (c *SubmissionController) ChangeStatus(ctx *fiber.Ctx) error {
	var body struct {
		Status Status `json:"status"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.service.ChangeStatus(ctx.UserContext(), ctx.Params("id"), body.Status); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *SubmissionController) RegisterImage(ctx *fiber.Ctx) error {
	var body struct {
		Kind     ImageKind `json:"kind"`
		FileName string    `json:"file_name"`
		URL      string    `json:"url"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.FileName == "" || body.URL == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file_name and url are required"})
	}

	uploadedBy, _ := ctx.Locals("userID").(string)
	image, err := c.service.RegisterImage(ctx.UserContext(), ctx.Params("id"), body.Kind, body.FileName, body.URL, uploadedBy)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": image})
}

func (c *SubmissionController) DeleteImage(ctx *fiber.Ctx) error {
	if err := c.service.DeleteImage(ctx.UserContext(), ctx.Params("id"), ctx.Params("imageId")); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *SubmissionController) AddThreadEntry(ctx *fiber.Ctx) error {
	var body struct {
		Tier Tier   `json:"tier"`
		Text string `json:"text"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Text == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Text is required"})
	}

	author, _ := ctx.Locals("userID").(string)
	entry, err := c.service.AddThreadEntry(ctx.UserContext(), ctx.Params("id"), body.Tier, author, body.Text)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": entry})
}
