package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/speedyvan/speedyvan-backend/api/routes"
	"github.com/speedyvan/speedyvan-backend/internal/bookings"
	"github.com/speedyvan/speedyvan-backend/internal/coupons"
	"github.com/speedyvan/speedyvan-backend/internal/pricing"
	"github.com/speedyvan/speedyvan-backend/internal/quotes"
	stripewebhook "github.com/speedyvan/speedyvan-backend/internal/webhooks/stripe"
	"github.com/speedyvan/speedyvan-backend/pkg/config"
	"github.com/speedyvan/speedyvan-backend/pkg/db"
	"github.com/speedyvan/speedyvan-backend/pkg/logger"
	"github.com/speedyvan/speedyvan-backend/pkg/maps"
	"github.com/speedyvan/speedyvan-backend/pkg/metrics"
	"github.com/speedyvan/speedyvan-backend/pkg/migrate"
	"github.com/speedyvan/speedyvan-backend/pkg/redis"
	pkgstripe "github.com/speedyvan/speedyvan-backend/pkg/stripe"
)

const (
	shutdownTimeout   = 15 * time.Second
	webhookIdemTTL    = 24 * time.Hour
	webhookIdemScope  = "stripe-webhook"
	readHeaderTimeout = 10 * time.Second
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
		if err := closeAll(dbClient, redisClient); err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}()

	var mapsClient *maps.Client
	var distanceResolver quotes.DistanceResolver
	if cfg.GoogleMaps.APIKey != "" {
		mapsClient, err = maps.NewClient(cfg.GoogleMaps.APIKey)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap google maps", err)
			os.Exit(1)
		}
		distanceResolver = quotes.NewDistanceResolver(mapsClient, redisClient, cfg.Pricing.DistanceCacheTTL, logg)
	} else {
		logg.Warn(context.Background(), "google maps api key not set, address lookups disabled")
	}

	var stripeClient *pkgstripe.Client
	if cfg.Stripe.APIKey != "" {
		stripeClient, err = pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap stripe", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "stripe api key not set, checkout disabled")
	}

	engine, err := pricing.NewEngine(pricing.DefaultRateTable(), quotes.ParamsFromConfig(cfg.Pricing))
	if err != nil {
		logg.Error(context.Background(), "failed to build pricing engine", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	quoteMetrics := metrics.NewQuoteMetrics(registry)

	couponService, err := coupons.NewService(coupons.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon service", err)
		os.Exit(1)
	}

	quoteService, err := quotes.NewService(engine, quotes.NewRepository(dbClient.DB()), couponService, distanceResolver, quoteMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	bookingService, err := bookings.NewService(
		bookings.NewRepository(dbClient.DB()),
		quoteService,
		couponService,
		bookings.NewStripeClient(stripeClient),
		dbClient,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create booking service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(bookingService)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, webhookIdemTTL, webhookIdemScope)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
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

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			mapsClient,
			distanceResolver,
			quoteService,
			couponService,
			bookingService,
			stripeClient,
			webhookService,
			webhookGuard,
			registry,
		),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func closeAll(dbClient *db.Client, redisClient *redis.Client) error {
	var errs error
	if dbClient != nil {
		errs = multierr.Append(errs, dbClient.Close())
	}
	if redisClient != nil {
		errs = multierr.Append(errs, redisClient.Close())
	}
	return errs
}
