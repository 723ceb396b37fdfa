package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/movie-collection/internal/handler"
	"github.com/iliyamo/movie-collection/internal/middleware"
)

// RegisterRoutes maps the collection pages onto e.  Form submissions pass
// through limiter; page views and the health probe do not.
func RegisterRoutes(e *echo.Echo, h *handler.CollectionHandler, limiter echo.MiddlewareFunc) {
	if limiter == nil {
		limiter = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	e.GET("/healthz", h.Health)

	e.GET("/", h.Home)
	e.GET("/users", h.ListUsers)
	e.GET("/users/:id", h.UserMovies)

	e.POST("/users/new", h.CreateUser, limiter)
	e.POST("/users/:id/movies", h.AddMovie, limiter)
	e.POST("/movies/:id/update", h.UpdateMovie, limiter)
	e.POST("/movies/:id/delete", h.DeleteMovie, limiter)
}

// New builds a configured echo instance: HTML renderer, error pages, panic
// recovery, request logging and all routes.
func New(h *handler.CollectionHandler, limiter echo.MiddlewareFunc) (*echo.Echo, error) {
	renderer, err := handler.NewRenderer()
	if err != nil {
		return nil, err
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = h.HTTPErrorHandler

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(h.Logger))

	RegisterRoutes(e, h, limiter)
	return e, nil
}
