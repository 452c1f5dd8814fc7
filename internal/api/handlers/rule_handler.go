package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/unosuke/postpilot/internal/models"
	"github.com/unosuke/postpilot/internal/service"
	"github.com/unosuke/postpilot/internal/transfer"
)

type RuleHandler struct {
	s service.RuleService
}

func NewRuleHandler(service service.RuleService) *RuleHandler {
	return &RuleHandler{s: service}
}

func ruleKind(c *fiber.Ctx) (models.RuleKind, bool) {
	switch c.Params("kind") {
	case "comment":
		return models.RuleKindComment, true
	case "dm":
		return models.RuleKindDM, true
	}
	return "", false
}

func (h *RuleHandler) CreateRule(c *fiber.Ctx) error {
	kind, ok := ruleKind(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule kind",
		})
	}

	var req transfer.RuleCreation
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	id, err := h.s.Create(c.Context(), kind, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id": id,
	})
}

func (h *RuleHandler) ListRules(c *fiber.Ctx) error {
	kind, ok := ruleKind(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule kind",
		})
	}

	accountID := c.QueryInt("account_id", 0)
	rules, err := h.s.List(c.Context(), kind, int64(accountID))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list rules",
		})
	}

	return c.Status(fiber.StatusOK).JSON(rules)
}

func (h *RuleHandler) UpdateRule(c *fiber.Ctx) error {
	kind, ok := ruleKind(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule kind",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule id",
		})
	}

	var req transfer.RuleUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.Update(c.Context(), kind, int64(id), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *RuleHandler) ReorderRules(c *fiber.Ctx) error {
	kind, ok := ruleKind(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule kind",
		})
	}

	var req transfer.RuleOrderUpdate
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	if err := h.s.Reorder(c.Context(), kind, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *RuleHandler) RemoveRule(c *fiber.Ctx) error {
	kind, ok := ruleKind(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule kind",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule id",
		})
	}

	if err := h.s.Remove(c.Context(), kind, int64(id)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to remove rule",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *RuleHandler) TestRules(c *fiber.Ctx) error {
	kind, ok := ruleKind(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rule kind",
		})
	}

	var req transfer.RuleTestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	result, err := h.s.Test(c.Context(), kind, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to test rules",
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
