package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/assessai/scoring-api/internal/config"
	"github.com/assessai/scoring-api/internal/handler"
	"github.com/assessai/scoring-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ScoringHandler    *handler.ScoringHandler
	EvaluationHandler *handler.EvaluationHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	scoring := api.Group("/scoring")
	if deps.ScoringHandler != nil {
		deps.ScoringHandler.Register(scoring)
	}
	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.Register(scoring)
	}
}
