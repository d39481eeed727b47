package middleware

import (
	"github.com/gofiber/fiber/v3"
)

// RequireUser rejects requests without a signed-in session.
func RequireUser() fiber.Handler {
	return func(c fiber.Ctx) error {
		_, data, ok := SessionFromFiber(c)
		if !ok || !data.LoggedIn() {
			return ErrNotSignedIn
		}
		return c.Next()
	}
}
