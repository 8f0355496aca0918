package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/busline-io/busline-backend/api/routes"
	"github.com/busline-io/busline-backend/internal/allocation"
	"github.com/busline-io/busline-backend/internal/seatledger"
	"github.com/busline-io/busline-backend/internal/trips"
	"github.com/busline-io/busline-backend/pkg/config"
	"github.com/busline-io/busline-backend/pkg/db"
	"github.com/busline-io/busline-backend/pkg/logger"
	"github.com/busline-io/busline-backend/pkg/metrics"
	"github.com/busline-io/busline-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "schedule-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "schedule"

	logg = logger.New(logger.Options{
		ServiceName: "schedule-api",
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

	registry := prometheus.NewRegistry()
	allocationMetrics := metrics.NewAllocationMetrics(registry)

	tripService, err := trips.NewService(trips.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create trip service", err)
		os.Exit(1)
	}

	if cfg.App.IsDev() && cfg.FeatureFlags.SeedDev {
		if err := tripService.SeedDev(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to seed dev data", err)
			os.Exit(1)
		}
	}

	ledger, err := seatledger.NewService(seatledger.NewRepository(dbClient.DB()), dbClient, allocationMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create seat ledger", err)
		os.Exit(1)
	}

	allocationService, err := allocation.NewService(ledger, cfg.Booking)
	if err != nil {
		logg.Error(context.Background(), "failed to create allocation coordinator", err)
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
	logg.Info(ctx, "starting schedule api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewScheduleRouter(cfg, logg, dbClient, registry, tripService, allocationService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "schedule api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
