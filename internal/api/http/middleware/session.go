package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/founders_backend/pkg/reqctx"
	"github.com/Alijeyrad/founders_backend/pkg/session"
)

const (
	LocalSessionID   = "session_id"
	LocalSessionData = "session_data"

	HeaderCSRFToken = "X-CSRF-Token"
	FieldCSRFToken  = "csrf_token"
)

var (
	ErrCSRFMismatch = fiber.NewError(fiber.StatusForbidden, "Invalid CSRF token")
	ErrNotSignedIn  = fiber.NewError(fiber.StatusUnauthorized, "Please log in to continue")
)

// Session loads the session named by the cookie, if any, into locals and
// attaches the signed-in principal to the request context. Requests without
// a valid cookie continue anonymously.
func Session(mgr *session.Manager) fiber.Handler {
	name := mgr.Config().CookieName
	return func(c fiber.Ctx) error {
		id := c.Cookies(name)
		if id == "" {
			return c.Next()
		}

		data, err := mgr.Load(id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				slog.WarnContext(c.Context(), "session: load failed", "err", err)
			}
			return c.Next()
		}

		BindSession(c, id, data)
		return c.Next()
	}
}

// BindSession stores the session in locals and refreshes the principal on
// the request context.
func BindSession(c fiber.Ctx, id string, data *session.Data) {
	c.Locals(LocalSessionID, id)
	c.Locals(LocalSessionData, data)

	if data.LoggedIn() {
		c.SetContext(reqctx.WithPrincipal(c.Context(), &reqctx.Principal{
			UserID:   data.UserID,
			Email:    data.Email,
			Role:     data.Role,
			Verified: data.Verified,
		}))
	}
}

// SessionFromFiber returns the session bound to this request, if any.
func SessionFromFiber(c fiber.Ctx) (string, *session.Data, bool) {
	id, _ := c.Locals(LocalSessionID).(string)
	data, _ := c.Locals(LocalSessionData).(*session.Data)
	return id, data, id != "" && data != nil
}

// SetSessionCookie writes the session id cookie.
func SetSessionCookie(c fiber.Ctx, cfg session.Config, id string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(cfg.TTL),
		Secure:   cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: cfg.SameSite(),
	})
}

func ClearSessionCookie(c fiber.Ctx, cfg session.Config) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		Secure:   cfg.CookieSecure,
		HTTPOnly: true,
		SameSite: cfg.SameSite(),
	})
}

// VerifyCSRF rejects POST requests whose csrf_token field (or X-CSRF-Token
// header) does not match the session token. Other methods pass through.
func VerifyCSRF() fiber.Handler {
	return func(c fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}

		token := c.FormValue(FieldCSRFToken)
		if token == "" {
			token = c.Get(HeaderCSRFToken)
		}

		_, data, ok := SessionFromFiber(c)
		if !ok || !data.CSRFMatches(token) {
			return ErrCSRFMismatch
		}
		return c.Next()
	}
}
