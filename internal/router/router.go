// Package router defines how HTTP routes are registered for the
// coordinator service.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/flourineV/cinemas-frontend-sub000/internal/config"
	"github.com/flourineV/cinemas-frontend-sub000/internal/handler"
	"github.com/flourineV/cinemas-frontend-sub000/internal/middleware"
)

// RegisterRoutes registers routes that do not depend on the resolved
// identity.  Currently it exposes only a health check for load
// balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterSession registers the reservation session endpoints.  Every
// route runs behind the identity middleware so handlers always see
// either a verified user id or a guest session id.  The submit route
// additionally carries the Redis token-bucket rate limit.
func RegisterSession(e *echo.Echo, h *handler.SessionHandler, cfg config.Config, rdb *redis.Client) {
	g := e.Group("/v1/session")
	g.Use(middleware.Identity(cfg.JWTSecret))

	g.GET("", h.GetSession)
	g.DELETE("", h.Teardown)
	g.POST("/region", h.SelectRegion)
	g.POST("/date", h.SelectDate)
	g.POST("/showtime", h.SelectShowtime)
	g.PUT("/tickets", h.SetTickets)
	g.POST("/seats", h.AddSeat)
	g.DELETE("/seats/:id", h.RemoveSeat)
	g.POST("/submit", h.Submit, middleware.SubmitRateLimit(cfg, rdb))
}

// RegisterDrafts registers the navigation handoff endpoint.  The token
// is the credential, so no identity middleware is applied: the payment
// screen may be opened before the guest cookie exists.
func RegisterDrafts(e *echo.Echo, h *handler.DraftHandler) {
	e.GET("/v1/drafts/:token", h.GetDraft)
}
