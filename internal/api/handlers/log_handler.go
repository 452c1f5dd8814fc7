package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/unosuke/postpilot/internal/repository"
)

type LogHandler struct {
	el repository.EventLogRepository
}

func NewLogHandler(el repository.EventLogRepository) *LogHandler {
	return &LogHandler{el: el}
}

func (h *LogHandler) ListLogs(c *fiber.Ctx) error {
	level := c.Query("level")
	source := c.Query("source")
	limit := c.QueryInt("limit", 0)

	logs, err := h.el.List(c.Context(), level, source, limit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list logs",
		})
	}

	return c.Status(fiber.StatusOK).JSON(logs)
}
