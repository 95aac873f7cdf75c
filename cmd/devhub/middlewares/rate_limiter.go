package middlewares

import (
	"strings"
	"time"

	"notehub/cmd/devhub/handlers/httperr"
	"notehub/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// BuildRateLimiter allows max requests per client IP in each window.
// max <= 0 disables it. Paths starting with one of skip are never counted.
// Rejections carry Retry-After and the usual 429 envelope.
func BuildRateLimiter(max int, window time.Duration, skip ...string) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   window,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		Next: func(c *fiber.Ctx) bool {
			return hasAnyPrefix(c.Path(), skip)
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.L().Info("rate limit reached", "ip", c.IP(), "path", c.Path())
			return httperr.Fail(httperr.ErrTooManyRequests)
		},
	})
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
