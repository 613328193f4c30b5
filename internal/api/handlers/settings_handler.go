package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/socialmindhq/socialmind/internal/service"
)

type SettingsHandler struct {
	s service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{s: s}
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	userID := GetUserID(c)

	settings, err := h.s.GetSettings(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch settings",
		})
	}

	return c.JSON(settings)
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req struct {
		DailyReminder bool   `json:"daily_reminder"`
		ReminderHour  int    `json:"reminder_hour"`
		Timezone      string `json:"timezone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.s.UpdateSettings(c.Context(), userID, req.DailyReminder, req.ReminderHour, req.Timezone); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
