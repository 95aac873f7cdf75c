package middlewares

import (
	"notehub/cmd/devhub/handlers/handlerutil"
	"notehub/cmd/devhub/handlers/httperr"
	"notehub/internal/logger"
	"notehub/internal/services/auth"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWT returns a configured Fiber middleware that:
//
//   - validates the Bearer token signature (HS256) using secret
//   - makes sure the token carries a "sub" claim
//   - stores it in ctx.Locals(handlerutil.SubjectKey)
//
// On any problem it bubbles up a 401 via the global httperr handler.
func JWT(secret []byte) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: secret},
		SuccessHandler: func(c *fiber.Ctx) error {
			// Token already verified at this point.
			token := c.Locals("user").(*jwt.Token)
			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				logger.L().Warn(auth.ErrInvalidTokenMissingSubject.Error(), "path", c.Path())
				return httperr.Fail(httperr.ErrUnauthorized)
			}

			c.Locals(handlerutil.SubjectKey, sub)
			return c.Next()
		},

		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.L().Debug("rejected bearer token", "path", c.Path(), "error", err)
			return httperr.Fail(httperr.ErrUnauthorized)
		},
	})
}
