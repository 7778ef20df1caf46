package middleware

import (
	"time"

	"ludora/internal/dto"
	"ludora/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

// PerUserRateLimit allows max requests per window for each authenticated user.
// It must run after Protected; anonymous requests fall back to the client IP.
func PerUserRateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, ok := UserID(c); ok {
				return "user:" + userID
			}
			return "ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			userID, _ := UserID(c)
			logger.Get().Warn("Rate limit reached", zap.String("path", c.Path()), zap.String("userID", userID))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "Too many requests. Please try again later.",
				Status:  fiber.StatusTooManyRequests,
			})
		},
	})
}
