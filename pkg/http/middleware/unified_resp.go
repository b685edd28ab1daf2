package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lunabeam/lunabeam/pkg/http"
)

const (
	// DETAIL is the Locals key a handler stores its response payload under.
	DETAIL = "detail"
	// OPERATION marks a handler that succeeded without a payload.
	OPERATION = "operation"
)

// UnifiedResponseMiddleware wraps handler results in the standard envelope.
// Handlers that wrote their own body are left alone.
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() != fiber.StatusOK {
			return http.WithRepErr(c, http.Failed)
		}

		if detail := c.Locals(DETAIL); detail != nil {
			return http.WithRepJSON(c, detail)
		}
		if c.Locals(OPERATION) != nil {
			return http.WithRepNotDetail(c)
		}
		return nil
	}
}
