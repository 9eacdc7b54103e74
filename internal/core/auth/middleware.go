package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const identityLocal = "identity"

// Authenticate resolves the Authorization bearer token into an Identity and
// stores it in the request locals. Requests without a valid token get 401.
func Authenticate(tm *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "authorization header required",
			})
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "invalid authorization header format",
			})
		}

		id, err := tm.Verify(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "invalid token",
			})
		}

		c.Locals(identityLocal, id)
		return c.Next()
	}
}

// RequireRole rejects authenticated requests whose identity lacks the role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := IdentityFromCtx(c)
		if !ok || id.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "insufficient role",
			})
		}
		return c.Next()
	}
}

// IdentityFromCtx returns the identity resolved by Authenticate.
func IdentityFromCtx(c *fiber.Ctx) (*Identity, bool) {
	id, ok := c.Locals(identityLocal).(*Identity)
	return id, ok
}
