package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/lunabeam/lunabeam/pkg/http"
	"github.com/lunabeam/lunabeam/pkg/log"
)

// ExceptionMiddleware converts a handler panic into an InternalError response.
func ExceptionMiddleware(c *fiber.Ctx) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithContext(c.UserContext()).Errorw("panic in handler",
				"path", c.Path(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			err = http.WithRepErr(c, http.InternalError)
		}
	}()

	return c.Next()
}

// ErrorHandler is the fiber app error handler: framework errors such as 404
// or a bad body limit are answered in the standard envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		switch fe.Code {
		case fiber.StatusNotFound:
			return http.WithRepErr(c, http.NotFound)
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			return http.WithRepErrMsg(c, http.BadRequest.Code, fe.Message, c.Path())
		}
	}
	log.WithContext(c.UserContext()).Errorw("unhandled request error", "path", c.Path(), "error", err)
	return http.WithRepErr(c, http.InternalError)
}
