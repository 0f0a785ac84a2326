package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// Healthz reports process liveness.
func Healthz(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
