package middleware

import (
	"fmt"
	"strings"

	"ludora/internal/dto"
	"ludora/internal/logger"
	"ludora/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
)

// Protected requires a valid access JWT and stores its user id in the context.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return unauthorized(c, fiber.StatusUnauthorized, "MISSING_AUTH_HEADER", "Authorization header is missing")
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return unauthorized(c, fiber.StatusUnauthorized, "INVALID_AUTH_SCHEME", "Authorization scheme is not Bearer")
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return unauthorized(c, fiber.StatusUnauthorized, "EMPTY_TOKEN", "Token is empty")
		}

		claims, err := authService.ValidateJWT(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("JWT validation error", zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired")
		}

		if claims.TokenType != "access" {
			return unauthorized(c, fiber.StatusForbidden, "INVALID_TOKEN_TYPE",
				fmt.Sprintf("Invalid token type: expected access, got %s", claims.TokenType))
		}

		c.Locals(UserIDKey, claims.UserID)

		return c.Next()
	}
}

// RequireAdmin rejects users that are not active superusers. It must run
// after Protected.
func RequireAdmin(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return unauthorized(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		}
		admin, err := authService.IsSuperuser(c.UserContext(), userID)
		if err != nil {
			return err
		}
		if !admin {
			logger.Get().Info("Admin route denied", zap.String("path", c.Path()), zap.String("userID", userID))
			return unauthorized(c, fiber.StatusForbidden, "FORBIDDEN", "Admin privileges required")
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id set by Protected.
func UserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(UserIDKey).(string)
	return userID, ok && userID != ""
}

func unauthorized(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{
		Code:    code,
		Message: message,
		Status:  status,
	})
}
