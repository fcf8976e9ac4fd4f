// Package router builds the Echo instance and registers every route of
// the movie rental API.
package router

import (
	"github.com/labstack/echo/v4"                 // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo's stock middleware (recover, CORS)
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-rental-api/internal/config"
	"github.com/iliyamo/movie-rental-api/internal/handler"
	"github.com/iliyamo/movie-rental-api/internal/middleware"
)

// Options configures the middleware chain built by New.
type Options struct {
	RateLimit config.RateLimitConfig
	Redis     *redis.Client // nil disables rate limiting
}

// unlimitedRoutes answer regardless of the rate limiter so liveness and
// scrape checks keep working while a client is throttled.
var unlimitedRoutes = []string{"/health", "/metrics"}

// Handlers groups the route handlers registered by RegisterRoutes.
type Handlers struct {
	Films     *handler.FilmHandler
	Actors    *handler.ActorHandler
	Customers *handler.CustomerHandler
	Rentals   *handler.RentalHandler
	DB        handler.HealthChecker
}

// New returns an Echo instance with the shared middleware chain.  Request
// ids are assigned first so every later log line carries one; the logger
// and metrics sit outside Recover so a recovered panic is still observed
// as a 500.
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.PrometheusMetrics())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS()) // any origin
	e.Use(middleware.NewTokenBucket(opts.RateLimit, opts.Redis, unlimitedRoutes...))
	return e
}

// RegisterRoutes maps every route to its handler.  guard wraps the
// mutating customer and rental routes; pass middleware.WriteGuard("") to
// leave them open.
func RegisterRoutes(e *echo.Echo, h Handlers, guard echo.MiddlewareFunc) {
	// Liveness and operator endpoints.
	e.GET("/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/test-db-connection", handler.DBCheck(h.DB))

	// Film and actor reads.
	e.GET("/top-rented-movies", h.Films.TopRentedMovies)
	e.GET("/movie/:id", h.Films.GetMovie)
	e.GET("/top-actors", h.Actors.TopActors)
	e.GET("/actor/:id", h.Actors.GetActor)

	// Customer records.  Static segments (search, details, rentals,
	// return, unreturn) take precedence over /:customer_id.
	g := e.Group("/api/customers")
	g.GET("", h.Customers.List)
	g.GET("/search", h.Customers.Search)
	g.GET("/details/:customer_id", h.Customers.Details)
	g.POST("", h.Customers.Create, guard)
	g.PUT("/:customer_id", h.Customers.Update, guard)
	g.DELETE("/:customer_id", h.Customers.Delete, guard)

	// Rentals of one customer and film, and the return toggles.
	g.GET("/rentals/:customer_id/:movie_id", h.Rentals.List)
	g.PUT("/return/:customer_id/:movie_id", h.Rentals.Return, guard)
	g.PUT("/unreturn/:customer_id/:movie_id", h.Rentals.Unreturn, guard)
}
