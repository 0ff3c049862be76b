package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nikhil8615/movie-booking/internal/api/handler"
	"github.com/nikhil8615/movie-booking/internal/api/router"
	"github.com/nikhil8615/movie-booking/internal/application"
	"github.com/nikhil8615/movie-booking/internal/config"
	"github.com/nikhil8615/movie-booking/internal/infrastructure/postgres"
	redisinfra "github.com/nikhil8615/movie-booking/internal/infrastructure/redis"
	"github.com/nikhil8615/movie-booking/internal/pkg/logger"
	"github.com/nikhil8615/movie-booking/internal/pkg/metrics"
	"github.com/nikhil8615/movie-booking/internal/pkg/token"
	"github.com/nikhil8615/movie-booking/internal/worker"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("failed to load .env", zap.Error(err))
	}
	cfg := config.Load()

	logger.Set(logger.NewLogger(cfg.App.Env))
	defer logger.Sync()

	if cfg.App.IsProduction() && cfg.Auth.JWTSecret == "dev-secret-change-me" {
		logger.Fatal("JWT_SECRET must be set in production")
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db.DB); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		logger.Info("database migrations applied")
	}

	m := metrics.Init()

	showRepo := postgres.NewShowRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	txManager := postgres.NewTxManager(db)

	healthChecks := map[string]handler.Pinger{
		"database": handler.PingFunc(func(ctx context.Context) error { return postgres.Ping(ctx, db) }),
	}

	reservationOpts := []application.ReservationOption{
		application.WithRetryPolicy(cfg.Booking.RetryPolicy()),
		application.WithMetrics(m),
	}
	// Interfaces stay nil without Redis so the services skip the gate and cache.
	var availabilityCache application.AvailabilityCache
	if cfg.Redis.Enabled {
		rc := redisinfra.NewClient(&cfg.Redis)
		defer rc.Close()

		if err := redisinfra.Ping(context.Background(), rc); err != nil {
			logger.Warn("redis unavailable at startup, seat gate will fail open", zap.Error(err))
		}

		cache := redisinfra.NewAvailabilityCache(rc)
		availabilityCache = cache
		reservationOpts = append(reservationOpts,
			application.WithSeatGate(redisinfra.NewSeatGate(redisinfra.NewLockManager(rc), cfg.Booking.SeatLockTTL, m)),
			application.WithCacheInvalidation(cache),
		)
		healthChecks["redis"] = handler.PingFunc(func(ctx context.Context) error { return redisinfra.Ping(ctx, rc) })
	}

	catalogService := application.NewCatalogService(showRepo)
	seatService := application.NewSeatService(showRepo, reservationRepo, availabilityCache, cfg.Cache.AvailabilityTTL)
	reservationService := application.NewReservationService(txManager, reservationRepo, showRepo, reservationOpts...)

	e := router.New(router.Deps{
		Catalog:      catalogService,
		Seats:        seatService,
		Reservations: reservationService,
		Tokens:       token.NewService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		Metrics:      m,
		MetricsAuth:  cfg.Metrics,
		HealthChecks: healthChecks,
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gauge := worker.NewActiveReservationGauge(reservationService, m.ActiveReservations, cfg.Worker.GaugeInterval)
	go gauge.Start(ctx)

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.App.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	gauge.Stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
