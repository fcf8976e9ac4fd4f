package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-rental-api/internal/config"     // Internal config loader
	"github.com/iliyamo/movie-rental-api/internal/database"   // MySQL pool
	"github.com/iliyamo/movie-rental-api/internal/handler"    // HTTP handlers
	"github.com/iliyamo/movie-rental-api/internal/logging"    // Structured logging
	"github.com/iliyamo/movie-rental-api/internal/middleware" // Write guard
	"github.com/iliyamo/movie-rental-api/internal/queue"      // Audit consumer
	"github.com/iliyamo/movie-rental-api/internal/repository" // SQL repositories
	"github.com/iliyamo/movie-rental-api/internal/router"     // Echo setup and routes
	"github.com/iliyamo/movie-rental-api/internal/service"    // Event publisher
)

func main() {
	cfg, err := config.Load() // Load defaults, config file and environment
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		logging.Fatal().Err(err).Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("database unavailable")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var events handler.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = service.NewAMQPPublisher(cfg.RabbitMQURL)
		if cfg.AuditConsumer {
			c := queue.NewAuditConsumer(cfg.RabbitMQURL, cfg.AuditLogPath)
			go func() {
				if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logging.Error().Err(err).Msg("audit consumer stopped")
				}
			}()
		}
	}

	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		rdb = config.NewRedisClient(cfg.Redis) // nil when Redis is unreachable; the limiter then passes through
		if rdb == nil {
			logging.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unreachable; rate limiting disabled")
		} else {
			defer rdb.Close()
		}
	}

	films := repository.NewFilmRepo(db)
	actors := repository.NewActorRepo(db)
	customers := repository.NewCustomerRepo(db)
	rentals := repository.NewRentalRepo(db)

	e := router.New(router.Options{RateLimit: cfg.RateLimit, Redis: rdb})
	router.RegisterRoutes(e, router.Handlers{
		Films:     handler.NewFilmHandler(films),
		Actors:    handler.NewActorHandler(actors),
		Customers: handler.NewCustomerHandler(customers, events, cfg.DefaultStoreID, cfg.DefaultAddress),
		Rentals:   handler.NewRentalHandler(rentals, events),
		DB:        repository.NewHealthRepo(db),
	}, middleware.WriteGuard(cfg.AdminJWTSecret))

	addr := ":" + cfg.Port
	go func() {
		logging.Info().
			Str("addr", addr).
			Str("env", cfg.Env).
			Bool("events", cfg.EventsEnabled).
			Bool("write_guard", cfg.AdminJWTSecret != "").
			Bool("rate_limit", rdb != nil).
			Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
