package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// NoteCounter reports how many notes the store holds
type NoteCounter interface {
	Len() int
}

// Healthz returns the health of the server.
// @Summary Health check
// @Description Check if the server is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
func Healthz(store NoteCounter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status": "down",
				"error":  "store not initialized",
			})
		}
		return c.JSON(fiber.Map{
			"status": "ok",
			"notes":  store.Len(),
		})
	}
}
