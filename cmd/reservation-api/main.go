package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/busline-io/busline-backend/api/routes"
	"github.com/busline-io/busline-backend/internal/booking"
	"github.com/busline-io/busline-backend/internal/reconciliation"
	"github.com/busline-io/busline-backend/internal/reservations"
	"github.com/busline-io/busline-backend/internal/scheduleclient"
	"github.com/busline-io/busline-backend/pkg/config"
	"github.com/busline-io/busline-backend/pkg/db"
	"github.com/busline-io/busline-backend/pkg/logger"
	"github.com/busline-io/busline-backend/pkg/metrics"
	"github.com/busline-io/busline-backend/pkg/migrate"
	"github.com/busline-io/busline-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "reservation-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "reservation"

	logg = logger.New(logger.Options{
		ServiceName: "reservation-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	scheduleAPI, err := scheduleclient.New(cfg.Schedule)
	if err != nil {
		logg.Error(context.Background(), "failed to create schedule client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	reservationService, err := reservations.NewService(reservations.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create reservation ledger", err)
		os.Exit(1)
	}

	reconciliationStore, err := reconciliation.NewStore(dbClient.DB())
	if err != nil {
		logg.Error(context.Background(), "failed to create reconciliation store", err)
		os.Exit(1)
	}

	bookingService, err := booking.NewService(
		reservationService,
		scheduleAPI,
		reconciliationStore,
		cfg.Booking,
		logg,
		bookingMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create booking orchestrator", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting reservation api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewReservationRouter(
			cfg, logg, dbClient, redisClient, registry,
			scheduleAPI, bookingService, reservationService, reconciliationStore,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "reservation api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
