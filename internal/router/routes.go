package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach/api/internal/auth"
	"github.com/octobees/outreach/api/internal/config"
	"github.com/octobees/outreach/api/internal/handler"
	middlewarepkg "github.com/octobees/outreach/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Users     *handler.UserAdminHandler
	Companies *handler.CompaniesHandler
	Discover  *handler.DiscoverHandler
	Enrich    *handler.EnrichHandler
	Draft     *handler.DraftHandler
	Send      *handler.SendHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.GET("/companies", handlers.Companies.List)
	secured.GET("/companies/:domain/contacts", handlers.Companies.Contacts)

	secured.POST("/discover", handlers.Discover.Discover, middlewarepkg.EndpointRateLimiter(cfg.RateLimitDiscover))
	secured.POST("/enrich", handlers.Enrich.Enrich, middlewarepkg.EndpointRateLimiter(cfg.RateLimitDiscover))
	secured.POST("/draft", handlers.Draft.Draft)
	secured.POST("/send", handlers.Send.Send)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.PATCH("/users/:id", handlers.Users.Update)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
