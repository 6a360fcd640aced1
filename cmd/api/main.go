package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/scyware/assettrack-backend/api/routes"
	"github.com/scyware/assettrack-backend/internal/activity"
	"github.com/scyware/assettrack-backend/internal/assets"
	"github.com/scyware/assettrack-backend/internal/auth"
	"github.com/scyware/assettrack-backend/internal/purchaseorders"
	"github.com/scyware/assettrack-backend/internal/requests"
	"github.com/scyware/assettrack-backend/internal/stores"
	"github.com/scyware/assettrack-backend/internal/users"
	"github.com/scyware/assettrack-backend/internal/vendors"
	"github.com/scyware/assettrack-backend/pkg/config"
	"github.com/scyware/assettrack-backend/pkg/db"
	"github.com/scyware/assettrack-backend/pkg/logger"
	"github.com/scyware/assettrack-backend/pkg/metrics"
	"github.com/scyware/assettrack-backend/pkg/migrate"
	"github.com/scyware/assettrack-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	custodyMetrics := metrics.NewCustodyMetrics(registry)

	conn := dbClient.DB()

	activityService, err := activity.NewService(activity.NewRepository(conn), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create activity service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(users.NewRepository(conn), cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	assetService, err := assets.NewService(assets.NewRepository(conn), dbClient, activityService, custodyMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create asset service", err)
		os.Exit(1)
	}

	requestService, err := requests.NewService(requests.NewRepository(conn), dbClient, activityService)
	if err != nil {
		logg.Error(context.Background(), "failed to create request service", err)
		os.Exit(1)
	}

	storeService, err := stores.NewService(stores.NewRepository(conn), dbClient, activityService)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	vendorRepo := vendors.NewRepository(conn)
	vendorService, err := vendors.NewService(vendorRepo, dbClient, activityService)
	if err != nil {
		logg.Error(context.Background(), "failed to create vendor service", err)
		os.Exit(1)
	}

	purchaseOrderService, err := purchaseorders.NewService(purchaseorders.NewRepository(conn), vendorRepo, dbClient, activityService)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase order service", err)
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
	logg.Info(ctx, "starting api server")

	handler := routes.NewRouter(cfg, logg, routes.Deps{
		DB:         dbClient,
		Redis:      redisClient,
		Gatherer:   registry,
		Idempotent: redisClient,
	}, routes.Services{
		Auth:           authService,
		Assets:         assetService,
		Requests:       requestService,
		Stores:         storeService,
		Vendors:        vendorService,
		PurchaseOrders: purchaseOrderService,
		Activity:       activityService,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
