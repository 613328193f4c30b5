package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/socialmindhq/socialmind/internal/service"
)

type DashboardHandler struct {
	s service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{s: s}
}

func (h *DashboardHandler) Analytics(c *fiber.Ctx) error {
	userID := GetUserID(c)

	analytics, err := h.s.Analytics(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute analytics",
		})
	}

	return c.JSON(analytics)
}

func (h *DashboardHandler) Insights(c *fiber.Ctx) error {
	userID := GetUserID(c)

	insights, err := h.s.Insights(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute insights",
		})
	}

	return c.JSON(insights)
}
