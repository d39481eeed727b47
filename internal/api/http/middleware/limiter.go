package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"

	"github.com/Alijeyrad/founders_backend/config"
)

// NewLimiter returns a sliding-window rate limiter keyed by client IP. A nil
// storage keeps counters in process memory.
func NewLimiter(storage fiber.Storage, cfg config.RateLimitConfig) fiber.Handler {
	limit := cfg.Max
	if limit <= 0 {
		limit = 20
	}
	exp := time.Duration(cfg.ExpirationSeconds) * time.Second
	if exp <= 0 {
		exp = 30 * time.Second
	}

	lc := limiter.Config{
		Max:               limit,
		Expiration:        exp,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c fiber.Ctx) error {
			return fiber.ErrTooManyRequests
		},
	}
	if storage != nil {
		lc.Storage = storage
	}
	return limiter.New(lc)
}
