package routes

import (
	"path/filepath"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Setup registers every route. m is nil when metrics are disabled, in which
// case /metrics is not mounted.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	flagHandler *handlers.FlagHandler,
	healthHandler *handlers.HealthHandler,
	m *metrics.Metrics,
) {
	app.Get("/health", healthHandler.Live)
	app.Get("/ready", healthHandler.Ready)
	if m != nil {
		app.Get("/metrics", m.Handler())
	}

	api := app.Group("/api")

	if cfg.RateLimitEnabled {
		api.Use(limiter.New(limiter.Config{
			Max:               cfg.RateLimitPerMinute,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}))
	}

	api.Use(middleware.Authenticate(cfg))

	flags := api.Group("/flags")
	flags.Get("/", flagHandler.List)
	flags.Post("/", flagHandler.Create)
	flags.Get("/:id", flagHandler.Get)
	flags.Patch("/:id", flagHandler.Update)
	flags.Delete("/:id", flagHandler.Delete)

	api.Get("/stats", flagHandler.Stats)

	// Dashboard
	app.Static("/static", cfg.StaticDir)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(cfg.StaticDir, "index.html"))
	})
}
