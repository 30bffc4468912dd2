package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hqnguyen/defense-eval-api/internal/config"
	"github.com/hqnguyen/defense-eval-api/internal/handler"
	"github.com/hqnguyen/defense-eval-api/internal/middleware"
	"github.com/hqnguyen/defense-eval-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AnalysisHandler *handler.AnalysisHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AnalysisHandler != nil {
		// Each analysis fans out to the LLM endpoint, so keep the per-user rate low.
		group := api.Group("", jwtMiddleware, middleware.RateLimit("analysis", 10, time.Minute))
		deps.AnalysisHandler.Register(group)
	}
}
