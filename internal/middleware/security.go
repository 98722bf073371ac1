package middleware

import (
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/config"
	"github.com/gofiber/fiber/v2"
)

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' https://cdn.tailwindcss.com; " +
	"style-src 'self' 'unsafe-inline' https://cdn.tailwindcss.com;"

// SecurityHeaders sets the response hardening headers. The CSP is only sent in
// production so local dashboards can load dev tooling.
func SecurityHeaders(cfg *config.Config) fiber.Handler {
	production := cfg.IsProduction()
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if production {
			c.Set("Content-Security-Policy", contentSecurityPolicy)
		}
		return c.Next()
	}
}
