package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/socialmindhq/socialmind/internal/service"
	"github.com/socialmindhq/socialmind/internal/transfer"
)

type AIHandler struct {
	s  service.AIService
	ms *service.MediaService
}

func NewAIHandler(s service.AIService, ms *service.MediaService) *AIHandler {
	return &AIHandler{s: s, ms: ms}
}

func (h *AIHandler) GenerateCaption(c *fiber.Ctx) error {
	file, err := c.FormFile("media")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A media file is required",
		})
	}

	media, mimeType, err := h.ms.SniffMedia(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	caption, err := h.s.GenerateCaption(
		c.Context(),
		media,
		mimeType,
		c.FormValue("tone"),
		c.FormValue("platform"),
		c.FormValue("content_idea"),
	)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Caption generation failed",
		})
	}

	return c.JSON(fiber.Map{"caption": caption})
}

func (h *AIHandler) GenerateContentPlan(c *fiber.Ctx) error {
	var req transfer.ContentPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	plan, err := h.s.GenerateContentPlan(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"plan": plan})
}
