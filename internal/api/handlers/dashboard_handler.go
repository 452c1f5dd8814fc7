package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/unosuke/postpilot/internal/service"
)

type DashboardHandler struct {
	s service.DashboardService
}

func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{s: service}
}

func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.s.Summary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to load summary",
		})
	}

	return c.Status(fiber.StatusOK).JSON(summary)
}
