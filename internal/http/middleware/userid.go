package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// UserIDHeader carries the authenticated user's id, set by the upstream
	// identity layer (gateway or auth proxy). This service trusts it and
	// performs no authentication itself.
	UserIDHeader = "X-User-ID"
	// UserIDLocalKey is the key used to store the user ID in Fiber's context locals.
	UserIDLocalKey = "user_id"
)

// RequireUser rejects requests without a valid X-User-ID header and stores
// the id in context locals for handlers.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(UserIDHeader)
		if id == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing user identity")
		}
		if _, err := uuid.Parse(id); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid user identity")
		}
		c.Locals(UserIDLocalKey, id)
		return c.Next()
	}
}

// UserIDFromCtx returns the user id stored by RequireUser, or "".
func UserIDFromCtx(c *fiber.Ctx) string {
	if v, ok := c.Locals(UserIDLocalKey).(string); ok {
		return v
	}
	return ""
}
