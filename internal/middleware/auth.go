package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/jaanutuni/internal/config"
	"github.com/example/jaanutuni/internal/utils"
)

const userContextKey = "currentUsername"

// AuthMiddleware validates JWT tokens and loads the authenticated username into context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		username, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userContextKey, username)
		return c.Next()
	}
}

// GetCurrentUsername extracts the authenticated username from context.
func GetCurrentUsername(c *fiber.Ctx) (string, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return "", false
	}

	if username, ok := value.(string); ok && username != "" {
		return username, true
	}

	return "", false
}
