package handler

import (
	"ludora/internal/domain"
	"ludora/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// currentUser returns the user id stored by middleware.Protected.
func currentUser(c *fiber.Ctx) (string, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return "", domain.NewUnauthorizedError("authentication required")
	}
	return userID, nil
}
