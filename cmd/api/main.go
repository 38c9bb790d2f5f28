package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"github.com/agrimart-np/agrimart-backend/api/routes"
	"github.com/agrimart-np/agrimart-backend/internal/activity"
	"github.com/agrimart-np/agrimart-backend/internal/archive"
	"github.com/agrimart-np/agrimart-backend/internal/catalog"
	"github.com/agrimart-np/agrimart-backend/internal/ledger"
	"github.com/agrimart-np/agrimart-backend/internal/orders"
	"github.com/agrimart-np/agrimart-backend/internal/wallet"
	"github.com/agrimart-np/agrimart-backend/internal/withdrawals"
	"github.com/agrimart-np/agrimart-backend/pkg/config"
	"github.com/agrimart-np/agrimart-backend/pkg/db"
	"github.com/agrimart-np/agrimart-backend/pkg/esewa"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
	"github.com/agrimart-np/agrimart-backend/pkg/metrics"
	"github.com/agrimart-np/agrimart-backend/pkg/migrate"
	"github.com/agrimart-np/agrimart-backend/pkg/realtime"
	"github.com/agrimart-np/agrimart-backend/pkg/redis"
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

	esewaClient, err := esewa.New(cfg.ESewa)
	if err != nil {
		logg.Error(context.Background(), "failed to create esewa client", err)
		os.Exit(1)
	}

	notifier := realtime.NewRedisNotifier(redisClient, logg)
	gormDB := dbClient.DB()

	activitySvc, err := activity.NewService(activity.NewRepository(gormDB), notifier, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create activity service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(gormDB)
	txnsRepo := ledger.NewRepository(gormDB)
	withdrawalsRepo := withdrawals.NewRepository(gormDB)

	ledgerSvc, err := ledger.NewService(txnsRepo, ordersRepo, activitySvc, notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	walletSvc, err := wallet.NewService(wallet.NewRepository(gormDB), ledgerSvc, withdrawalsRepo, activitySvc, notifier, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(orders.Deps{
		Repo:           ordersRepo,
		Transactions:   txnsRepo,
		Wallet:         walletSvc,
		Stock:          catalog.NewRepository(gormDB),
		Gateway:        esewaClient,
		Tx:             dbClient,
		Activity:       activitySvc,
		Notifier:       notifier,
		DeliveryCharge: decimal.NewFromFloat(cfg.Checkout.DeliveryCharge),
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	withdrawalsSvc, err := withdrawals.NewService(
		withdrawalsRepo,
		txnsRepo,
		walletSvc,
		dbClient,
		activitySvc,
		notifier,
		decimal.NewFromFloat(cfg.Checkout.MinWithdrawalAmount),
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create withdrawals service", err)
		os.Exit(1)
	}

	archiveSvc, err := archive.NewService(archive.NewRepository(gormDB), activitySvc, notifier, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create archive service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

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

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, httpMetrics, metricsHandler, routes.Services{
			Orders:      ordersSvc,
			Wallet:      walletSvc,
			Ledger:      ledgerSvc,
			Withdrawals: withdrawalsSvc,
			Archive:     archiveSvc,
			Activity:    activitySvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
