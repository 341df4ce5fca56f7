package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/storelane/storelane-backend/api/controllers"
	"github.com/storelane/storelane-backend/api/routes"
	"github.com/storelane/storelane-backend/internal/auth"
	"github.com/storelane/storelane-backend/internal/events"
	"github.com/storelane/storelane-backend/internal/orders"
	"github.com/storelane/storelane-backend/internal/products"
	"github.com/storelane/storelane-backend/internal/users"
	"github.com/storelane/storelane-backend/pkg/config"
	"github.com/storelane/storelane-backend/pkg/db"
	"github.com/storelane/storelane-backend/pkg/logger"
	"github.com/storelane/storelane-backend/pkg/metrics"
	"github.com/storelane/storelane-backend/pkg/migrate"
	"github.com/storelane/storelane-backend/pkg/pubsub"
	"github.com/storelane/storelane-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	readiness := map[string]controllers.Pinger{
		"db":    dbClient,
		"redis": redisClient,
	}

	var publisher events.Publisher = events.NewNoopPublisher()
	if cfg.FeatureFlags.PublishEvents && cfg.GCP.ProjectID != "" {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()

		publisher, err = events.NewPubSubPublisher(pubsubClient, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create event publisher", err)
			os.Exit(1)
		}
		readiness["pubsub"] = pubsubClient
	} else {
		logg.Warn(context.Background(), "event publishing disabled, using noop publisher")
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()), publisher)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, publisher)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Handler: routes.NewRouter(routes.Dependencies{
			Config:      cfg,
			Logger:      logg,
			Redis:       redisClient,
			Metrics:     httpMetrics,
			Registry:    registry,
			AuthService: authService,
			Products:    productService,
			Orders:      orderService,
			Readiness:   readiness,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
