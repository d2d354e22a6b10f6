package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/shitcodegenerator/touching-backend/configs"
	"github.com/shitcodegenerator/touching-backend/configs/configsdatabase"
	"github.com/shitcodegenerator/touching-backend/middlewares"
	"github.com/shitcodegenerator/touching-backend/pkg/response"
)

const (
	msgRouteNotFound = "找不到此頁面"
	healthTimeout    = 2 * time.Second
)

// NewApp builds the Fiber app with the error handler and every route.
func NewApp(a *configs.App) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "touching-backend",
		ErrorHandler: middlewares.ErrorHandler(a.Log, a.Config.IsDevelopment()),
		BodyLimit:    1 << 20,
	})
	SetupRoutes(app, a)
	return app
}

// SetupRoutes registers the global middleware and every route group.
func SetupRoutes(app *fiber.App, a *configs.App) {
	cfg := a.Config

	// --- Global middleware ---
	app.Use(middlewares.Recovery())
	app.Use(middlewares.RequestContext(cfg.RequestTimeout))
	app.Use(middlewares.AccessLog())
	app.Use(middlewares.Cors(cfg.CORSAllowOrigins))

	// --- Operational endpoints, not rate limited ---
	app.Get("/health", healthHandler(a))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))

	// --- Route groups ---
	if cfg.RateLimitMax > 0 {
		app.Use(middlewares.RateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow))
	}
	registerQuestionnaireRoutes(app, a)

	// --- 404 handler ---
	app.Use(notFoundHandler)
}

func healthHandler(a *configs.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := configsdatabase.Ping(ctx, a.DB); err != nil {
			a.Log.Error("Health check: database ping failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unavailable",
				"database": "down",
			})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": "up"})
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	return response.Fail(c, fiber.StatusNotFound, msgRouteNotFound)
}
