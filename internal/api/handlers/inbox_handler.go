package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/unosuke/postpilot/internal/service"
)

type InboxHandler struct {
	s service.InboxService
}

func NewInboxHandler(service service.InboxService) *InboxHandler {
	return &InboxHandler{s: service}
}

func repliedFilter(c *fiber.Ctx) *bool {
	switch c.Query("status") {
	case "unhandled":
		v := false
		return &v
	case "auto_replied":
		v := true
		return &v
	}
	switch c.Query("replied") {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

func (h *InboxHandler) ListComments(c *fiber.Ctx) error {
	accountID := c.QueryInt("account_id", 0)
	limit := c.QueryInt("limit", 0)

	entries, err := h.s.Comments(c.Context(), int64(accountID), repliedFilter(c), limit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list comments",
		})
	}

	return c.Status(fiber.StatusOK).JSON(entries)
}

func (h *InboxHandler) ListDMs(c *fiber.Ctx) error {
	accountID := c.QueryInt("account_id", 0)
	limit := c.QueryInt("limit", 0)

	entries, err := h.s.DMs(c.Context(), int64(accountID), repliedFilter(c), limit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list messages",
		})
	}

	return c.Status(fiber.StatusOK).JSON(entries)
}

func (h *InboxHandler) ListConversations(c *fiber.Ctx) error {
	accountID := c.QueryInt("account_id", 0)

	conversations, err := h.s.Conversations(c.Context(), int64(accountID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list conversations",
		})
	}

	return c.Status(fiber.StatusOK).JSON(conversations)
}
