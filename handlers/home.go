package handlers

import (
	"errors"

	"musicapp/middleware"
	"musicapp/store"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Home(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	data := fiber.Map{"authenticated": actor.Authenticated()}

	if actor.Authenticated() {
		user, err := h.store.GetUser(c.UserContext(), actor.UserID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			// session outlived its user
			data["authenticated"] = false
		case err != nil:
			return err
		default:
			data["username"] = user.Username
		}
	}
	return render(c, "home", data)
}

// Health pings the database.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.store.Ping(c.UserContext()); err != nil {
		h.logger.Warn("health check failed", "err", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
