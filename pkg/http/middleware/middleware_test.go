package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	httpx "github.com/lunabeam/lunabeam/pkg/http"
	"github.com/lunabeam/lunabeam/pkg/http/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(body, &out))
	return out
}

func TestRequestMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(RequestMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(c.Get(fiber.HeaderXRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(fiber.HeaderXRequestID, "existing-request-id")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "existing-request-id", resp.Header.Get(fiber.HeaderXRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(resp.Header.Get(fiber.HeaderXRequestID))
	assert.NoError(t, err)
}

func TestUnifiedResponseMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(UnifiedResponseMiddleware())
	app.Get("/detail", func(c *fiber.Ctx) error {
		c.Locals(DETAIL, map[string]string{"displayName": "Sam"})
		return nil
	})
	app.Get("/operation", func(c *fiber.Ctx) error {
		c.Locals(OPERATION, true)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/detail", nil))
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, float64(httpx.Success.Code), body["code"])
	assert.Equal(t, "Sam", body["detail"].(map[string]any)["displayName"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/operation", nil))
	require.NoError(t, err)
	body = decode(t, resp)
	assert.Equal(t, float64(httpx.Success.Code), body["code"])
	assert.NotContains(t, body, "detail")
}

func TestExceptionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ExceptionMiddleware)
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, float64(httpx.InternalError.Code), decode(t, resp)["code"])
}

func TestAuthorizationMiddleware(t *testing.T) {
	const secret = "s3cret"
	app := fiber.New()
	app.Use(AuthorizationMiddleware(secret))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(CurrentIdentity(c))
	})

	valid, err := jwt.GenToken("ident-9", "lunabeam", []byte(secret), time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := jwt.GenToken("ident-9", "lunabeam", []byte(secret), time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", httpx.AuthorizationEmpty.Code},
		{"wrong scheme", "Basic abc", httpx.TokenFormatIncorrect.Code},
		{"garbage token", "Bearer abc", httpx.InvalidToken.Code},
		{"expired token", "Bearer " + expired, httpx.TokenExpired.Code},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, float64(tt.code), decode(t, resp)["code"])
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+valid)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "ident-9", string(body))
}

func TestTraceMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(TraceMiddleware("test"))
	app.Get("/ok", func(c *fiber.Ctx) error {
		assert.NotNil(t, c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
