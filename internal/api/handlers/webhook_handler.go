package handlers

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	config "github.com/unosuke/postpilot/configs"
	"github.com/unosuke/postpilot/internal/webhook"
)

type WebhookHandler struct {
	cfg      *config.Config
	ingestor *webhook.Ingestor
}

func NewWebhookHandler(cfg *config.Config, ingestor *webhook.Ingestor) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, ingestor: ingestor}
}

// Verify answers the platform's subscription handshake.
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.WebhookVerifyToken)) == 1 {
		return c.Status(fiber.StatusOK).SendString(challenge)
	}

	return c.SendStatus(fiber.StatusForbidden)
}

// HandleComments processes a comment webhook delivery. The response is
// always 200 so the platform does not retry events we already consumed;
// per-event failures land in the event log instead.
func (h *WebhookHandler) HandleComments(c *fiber.Ctx) error {
	events, warnings, err := webhook.ParseCommentEvents(c.Body())
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}
	for _, w := range warnings {
		slog.Info("comment webhook: " + w)
	}

	for _, ev := range events {
		if err := h.ingestor.HandleComment(c.Context(), ev); err != nil {
			slog.Info(err.Error())
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// HandleMessages processes a direct message webhook delivery.
func (h *WebhookHandler) HandleMessages(c *fiber.Ctx) error {
	events, warnings, err := webhook.ParseMessageEvents(c.Body())
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}
	for _, w := range warnings {
		slog.Info("message webhook: " + w)
	}

	for _, ev := range events {
		if err := h.ingestor.HandleMessage(c.Context(), ev); err != nil {
			slog.Info(err.Error())
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
