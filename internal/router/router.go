package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/attendance-scheduler/internal/config"     // runtime configuration for middleware wiring
	"github.com/iliyamo/attendance-scheduler/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/attendance-scheduler/internal/middleware" // middleware for trigger auth and rate limiting
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance: the health check used by load
// balancers and the timezone catalog consumed by the profile editor.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/timezones", handler.Timezones)
}

// RegisterTriggers registers the two run endpoints under /v1.  Both
// are guarded by the trigger auth middleware (internal key or bearer
// JWT) and a Redis-backed rate limiter; rdb may be nil, in which case
// rate limiting degrades to a pass-through.
func RegisterTriggers(e *echo.Echo, s *handler.SchedulerHandler, n *handler.NotifierHandler, cfg config.Config, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	g.Use(middleware.TriggerAuth(cfg.JWTSecret, cfg.InternalAPIKey))
	// The scheduler materializes due events; the notifier delivers the
	// pending ones.  They share no call path, only the event store, so
	// external cron can trigger them on independent cadences.
	g.POST("/scheduler/run", s.Run)
	g.POST("/notifier/run", n.Run)
}
