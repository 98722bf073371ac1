package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/tenant"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newOwnerApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Use(Authenticate(cfg))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		owner, err := tenant.GetOwnerID(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(owner)
	})
	return app
}

func signHS256(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func get(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthenticate_DevOwner(t *testing.T) {
	app := newOwnerApp(&config.Config{DevOwnerID: "dev_user_123"})

	status, body := get(t, app, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "dev_user_123", body)
}

func TestAuthenticate_SharedSecret(t *testing.T) {
	app := newOwnerApp(&config.Config{JWTSecret: testSecret})

	token := signHS256(t, jwt.MapClaims{"sub": "user_2abc", "exp": time.Now().Add(time.Hour).Unix()})
	status, body := get(t, app, token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "user_2abc", body)
}

func TestAuthenticate_Rejects(t *testing.T) {
	app := newOwnerApp(&config.Config{JWTSecret: testSecret})

	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("other"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage", "not-a-jwt"},
		{"wrong key", wrongKey},
		{"expired", signHS256(t, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"missing sub", signHS256(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})},
		{"empty sub", signHS256(t, jwt.MapClaims{"sub": ""})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := get(t, app, tt.token)
			assert.Equal(t, fiber.StatusUnauthorized, status)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			app := fiber.New()
			app.Use(SecurityHeaders(&config.Config{Environment: env}))
			app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
			assert.Equal(t, "strict-origin-when-cross-origin", resp.Header.Get("Referrer-Policy"))
			if env == "production" {
				assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "default-src 'self'")
			} else {
				assert.Empty(t, resp.Header.Get("Content-Security-Policy"))
			}
		})
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(&config.Config{CORSOrigins: "http://localhost:8000"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://localhost:8000")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", resp.Header.Get("Access-Control-Allow-Origin"))
}
