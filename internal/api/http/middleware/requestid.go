package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/founders_backend/pkg/reqctx"
)

const HeaderRequestID = "X-Request-Id"

const maxRequestIDLen = 64

// RequestID adopts the caller's X-Request-Id when it is a short token,
// otherwise assigns a UUID. The id is echoed back and stored in the request
// context together with the client address.
func RequestID() fiber.Handler {
	return func(c fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if !acceptableRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		c.SetContext(reqctx.WithRequest(c.Context(), reqctx.Request{
			ID:         rid,
			ClientIP:   c.IP(),
			UserAgent:  c.Get(fiber.HeaderUserAgent),
			ReceivedAt: time.Now(),
		}))
		return c.Next()
	}
}

// acceptableRequestID keeps client-supplied ids out of logs unless they are
// plain tokens.
func acceptableRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
