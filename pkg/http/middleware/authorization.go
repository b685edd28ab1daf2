package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/lunabeam/lunabeam/pkg/http"
	"github.com/lunabeam/lunabeam/pkg/http/jwt"
	"github.com/lunabeam/lunabeam/pkg/log"
)

// IdentityKey is the Locals key holding the authenticated identity id.
const IdentityKey = "identityId"

// AuthorizationMiddleware requires a valid "Bearer <jwt>" header.
func AuthorizationMiddleware(secretKey string) fiber.Handler {
	secret := []byte(secretKey)
	return func(c *fiber.Ctx) error {
		aToken := c.Get(fiber.HeaderAuthorization)
		if aToken == "" {
			return http.WithRepErr(c, http.AuthorizationEmpty)
		}

		parts := strings.SplitN(aToken, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return http.WithRepErr(c, http.TokenFormatIncorrect)
		}

		claims, err := jwt.ParseToken(parts[1], secret)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepErr(c, http.TokenExpired)
			}
			log.Debugw("parse token failed", "error", err)
			return http.WithRepErr(c, http.InvalidToken)
		}

		c.Locals(IdentityKey, claims.IdentityId)
		return c.Next()
	}
}

// CurrentIdentity returns the identity set by AuthorizationMiddleware.
func CurrentIdentity(c *fiber.Ctx) string {
	v, _ := c.Locals(IdentityKey).(string)
	return v
}
