package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/founders_backend/pkg/authorize"
)

// RequirePermission checks the session role against the casbin policy.
// Anonymous requests get 401, signed-in users without the grant get 403.
func RequirePermission(auth authorize.IAuthorization, resource authorize.Resource, action authorize.Action) fiber.Handler {
	return func(c fiber.Ctx) error {
		_, data, ok := SessionFromFiber(c)
		if !ok || !data.LoggedIn() {
			return ErrNotSignedIn
		}

		if err := auth.MustEnforce(c.Context(), authorize.RoleOf(data.Role), resource, action); err != nil {
			if errors.Is(err, authorize.ErrForbidden) {
				return fiber.ErrForbidden
			}
			return err
		}

		return c.Next()
	}
}
