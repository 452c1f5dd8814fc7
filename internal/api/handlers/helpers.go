package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/unosuke/postpilot/internal/service"
)

func statusFor(err error) int {
	if errors.Is(err, service.ErrStatusConflict) {
		return fiber.StatusConflict
	}
	return fiber.StatusBadRequest
}
