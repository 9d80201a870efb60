package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/RufelleEmmanuelPactol/Tukma-Backend-sub000/internal/ports"
)

// AuthRequired resolves the bearer token to an identity and stores it in
// locals. Websocket upgrades carry the token as a query parameter because
// browsers cannot set headers on the upgrade request.
func AuthRequired(service ports.IdentityService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization"})
		}

		identity, err := service.ResolveIdentity(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("identity", identity)

		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
