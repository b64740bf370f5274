package crm

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type CRMController struct {
	service CRMService
}

func NewCRMController(service CRMService) *CRMController {
	return &CRMController{service: service}
}

func paging(ctx *fiber.Ctx) (int64, int64) {
	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

func (c *CRMController) CreateLead(ctx *fiber.Ctx) error {
	var lead Lead
	if err := ctx.BodyParser(&lead); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if lead.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	if err := c.service.CreateLead(ctx.UserContext(), &lead); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": lead})
}

func (c *CRMController) GetLead(ctx *fiber.Ctx) error {
	lead, err := c.service.GetLead(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
	}
	return ctx.JSON(fiber.Map{"data": lead})
}

func (c *CRMController) ListLeads(ctx *fiber.Ctx) error {
	limit, offset := paging(ctx)
	leads, err := c.service.ListLeads(ctx.UserContext(), limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": leads})
}

func (c *CRMController) ConvertLead(ctx *fiber.Ctx) error {
	client, err := c.service.ConvertLead(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": client})
}

func (c *CRMController) CreateClient(ctx *fiber.Ctx) error {
	var client Client
	if err := ctx.BodyParser(&client); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if client.Name == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	if err := c.service.CreateClient(ctx.UserContext(), &client); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": client})
}

func (c *CRMController) GetClient(ctx *fiber.Ctx) error {
	client, err := c.service.GetClient(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
	}
	return ctx.JSON(fiber.Map{"data": client})
}

func (c *CRMController) ListClients(ctx *fiber.Ctx) error {
	limit, offset := paging(ctx)
	clients, err := c.service.ListClients(ctx.UserContext(), limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": clients})
}
