package router

import (
	"time"

	"github.com/agora-labs/agora-api/internal/config"
	"github.com/agora-labs/agora-api/internal/handler"
	"github.com/agora-labs/agora-api/internal/middleware"
	"github.com/agora-labs/agora-api/internal/observability"
	"github.com/gofiber/fiber/v2"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ThreadHandler     *handler.ThreadHandler
	PostHandler       *handler.PostHandler
	EngagementHandler *handler.EngagementHandler
	ModerationHandler *handler.ModerationHandler
	DashboardHandler  *handler.DashboardHandler
	ProfileHandler    *handler.ProfileHandler
	EventHandler      *handler.EventHandler
	JWTMiddleware     fiber.Handler
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

	writeLimiter := middleware.RateLimit("write", 30, time.Minute)
	limitWrites := func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodPost {
			return writeLimiter(c)
		}
		return c.Next()
	}

	if deps.ThreadHandler != nil {
		threads := api.Group("/threads", jwtMiddleware, limitWrites)
		deps.ThreadHandler.Register(threads)
	}

	if deps.PostHandler != nil {
		posts := api.Group("/posts", jwtMiddleware, limitWrites)
		deps.PostHandler.Register(posts)

		if deps.EngagementHandler != nil {
			deps.EngagementHandler.Register(posts)
		}
	}

	if deps.ProfileHandler != nil {
		profiles := api.Group("/profiles", jwtMiddleware)
		deps.ProfileHandler.Register(profiles)
	}

	if deps.ModerationHandler != nil {
		moderation := api.Group("/moderation", jwtMiddleware,
			middleware.RequireRole(middleware.RoleModerator, middleware.RoleAdmin))
		deps.ModerationHandler.Register(moderation)
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", jwtMiddleware,
			middleware.RequireRole(middleware.RoleModerator, middleware.RoleAdmin))
		deps.DashboardHandler.Register(dashboard)
	}

	if deps.EventHandler != nil {
		events := api.Group("/events", jwtMiddleware)
		deps.EventHandler.Register(events)
	}
}
