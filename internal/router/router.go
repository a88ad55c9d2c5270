package router // route registration for the booking API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/123R3N321/FoodTok/internal/config"
	"github.com/123R3N321/FoodTok/internal/handler"
	"github.com/123R3N321/FoodTok/internal/middleware"
)

// Handlers bundles the HTTP handlers registered by this package.
type Handlers struct {
	Availability *handler.AvailabilityHandler
	Holds        *handler.HoldHandler
	Reservations *handler.ReservationHandler
	Waitlist     *handler.WaitlistHandler
}

// RegisterRoutes wires the full API surface onto the Echo instance.
// The health check is open; everything under /v1 requires a valid
// bearer token because every booking operation needs a user identity.
// Availability reads additionally get the Redis response cache, and
// the whole group sits behind the distributed rate limiter.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client,
	rlCfg config.RateLimitConfig, cacheCfg config.CacheConfig) {

	e.GET("/healthz", handler.Health)

	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.NewTokenBucket(rlCfg, rdb),
	)

	// Availability is a read and the one endpoint worth caching; a
	// few seconds of staleness is resolved at hold time as a conflict.
	g.GET("/restaurants/:id/availability", h.Availability.Query,
		middleware.NewRedisCache(cacheCfg, rdb))

	g.POST("/holds", h.Holds.Create)
	g.GET("/holds/active", h.Holds.Active)
	g.POST("/holds/:id/finalize", h.Holds.Finalize)
	g.DELETE("/holds/:id", h.Holds.Cancel)

	g.POST("/waitlist", h.Waitlist.Enqueue)

	g.GET("/my-reservations", h.Reservations.List)
	g.GET("/reservations/:id", h.Reservations.Get)
	g.DELETE("/reservations/:id", h.Reservations.Cancel)
}
