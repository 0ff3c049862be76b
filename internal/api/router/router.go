// Package router assembles the HTTP server.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nikhil8615/movie-booking/internal/api"
	"github.com/nikhil8615/movie-booking/internal/api/handler"
	"github.com/nikhil8615/movie-booking/internal/api/middleware"
	"github.com/nikhil8615/movie-booking/internal/config"
	"github.com/nikhil8615/movie-booking/internal/pkg/metrics"
)

type Deps struct {
	Catalog      handler.CatalogServiceInterface
	Seats        handler.SeatServiceInterface
	Reservations handler.ReservationServiceInterface
	Tokens       middleware.TokenVerifier

	// Metrics enables request metrics when set.
	Metrics     *metrics.Metrics
	MetricsAuth config.MetricsConfig
	// MetricsHandler serves /metrics. Defaults to promhttp.Handler().
	MetricsHandler http.Handler

	HealthChecks map[string]handler.Pinger
}

// New returns an echo instance with every route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	middleware.SetupMiddleware(e)
	if d.Metrics != nil {
		e.Use(middleware.PrometheusMiddleware(d.Metrics))
	}

	metricsHandler := d.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	e.GET("/metrics", echo.WrapHandler(metricsHandler), middleware.MetricsBasicAuth(d.MetricsAuth))

	health := handler.NewHealthHandler(d.HealthChecks)
	catalog := handler.NewCatalogHandler(d.Catalog)
	seats := handler.NewSeatHandler(d.Seats)
	reservations := handler.NewReservationHandler(d.Reservations)
	auth := middleware.RequireCaller(d.Tokens)

	e.GET("/health", health.Check)

	v1 := e.Group("/api/v1")
	v1.GET("/health", health.Check)

	v1.GET("/movies", catalog.ListMovies)
	v1.GET("/movies/:movie_id/shows", catalog.ListShows)
	v1.GET("/shows/:show_id", catalog.GetShow)
	v1.GET("/shows/:show_id/available-seats", seats.GetAvailable)

	v1.POST("/shows/:show_id/book", reservations.Book, auth)
	v1.POST("/bookings/:booking_id/cancel", reservations.Cancel, auth)
	v1.GET("/my-bookings", reservations.ListMine, auth)

	return e
}
