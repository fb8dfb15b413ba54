package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/smokehouse-backend/api/routes"
	"github.com/angelmondragon/smokehouse-backend/internal/cart"
	"github.com/angelmondragon/smokehouse-backend/internal/catalog"
	"github.com/angelmondragon/smokehouse-backend/internal/checkout"
	"github.com/angelmondragon/smokehouse-backend/internal/delivery"
	"github.com/angelmondragon/smokehouse-backend/internal/identity"
	"github.com/angelmondragon/smokehouse-backend/internal/ledger"
	"github.com/angelmondragon/smokehouse-backend/internal/reviews"
	"github.com/angelmondragon/smokehouse-backend/internal/users"
	"github.com/angelmondragon/smokehouse-backend/internal/visitor"
	"github.com/angelmondragon/smokehouse-backend/pkg/auth/session"
	"github.com/angelmondragon/smokehouse-backend/pkg/config"
	"github.com/angelmondragon/smokehouse-backend/pkg/db"
	"github.com/angelmondragon/smokehouse-backend/pkg/env"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
	"github.com/angelmondragon/smokehouse-backend/pkg/metrics"
	"github.com/angelmondragon/smokehouse-backend/pkg/migrate"
	"github.com/angelmondragon/smokehouse-backend/pkg/novaposhta"
	"github.com/angelmondragon/smokehouse-backend/pkg/pubsub"
	"github.com/angelmondragon/smokehouse-backend/pkg/redis"
	"github.com/angelmondragon/smokehouse-backend/pkg/sheets"
	"github.com/angelmondragon/smokehouse-backend/pkg/telegram"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledger.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	identityParams := identity.ServiceParams{
		DB:             dbClient,
		Ledger:         ledgerService,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	}
	if cfg.Google.OAuthClientID != "" {
		verifier, err := identity.NewGoogleVerifier(cfg.Google.OAuthClientID)
		if err != nil {
			logg.Error(context.Background(), "failed to create google verifier", err)
			os.Exit(1)
		}
		identityParams.Google = verifier
	}
	identityService, err := identity.NewService(identityParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity service", err)
		os.Exit(1)
	}

	loader, err := catalog.NewLoader(catalog.LoaderParams{
		Sheets: sheets.NewClient(cfg.Catalog.FetchTimeout),
		Store:  redisClient,
		Config: cfg.Catalog,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog loader", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.NewRepository(redisClient, cfg.Cart.TTL), loader, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	var sinks []checkout.Sink
	if cfg.Telegram.Enabled() {
		tg, err := telegram.NewClient(cfg.Telegram.BotToken, telegram.WithBaseURL(cfg.Telegram.BaseURL))
		if err != nil {
			logg.Error(context.Background(), "failed to create telegram client", err)
			os.Exit(1)
		}
		sinks = append(sinks, checkout.NewTelegramSink(tg, cfg.Telegram.ChatID))
	} else {
		logg.Warn(context.Background(), "telegram credentials missing; orders will not be posted to the shop chat")
	}
	if cfg.PubSub.Enabled() {
		psClient, err := pubsub.NewClient(context.Background(), cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		if publisher := pubsub.NewEventPublisher(psClient.OrdersPublisher()); publisher != nil {
			sinks = append(sinks, checkout.NewPubSubSink(publisher))
		}
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Carts:    cartService,
		Balances: identityService,
		Notifier: checkout.NewNotifier(logg, checkoutMetrics, sinks...),
		Metrics:  checkoutMetrics,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	visitorService, err := visitor.NewService(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create visitor service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviews.ServiceParams{
		Repo:   reviews.NewRepository(dbClient.DB()),
		Users:  users.NewRepository(dbClient.DB()),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	deliveryService := delivery.NewService(
		novaposhta.NewClient(cfg.NovaPoshta.APIKey, novaposhta.WithBaseURL(cfg.NovaPoshta.BaseURL)),
	)

	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":   cfg.App.Env,
		"addr":  addr,
		"sinks": len(sinks),
	})

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Sessions:    sessionManager,
			Catalog:     loader,
			Cart:        cartService,
			Checkout:    checkoutService,
			Delivery:    deliveryService,
			Visitor:     visitorService,
			Identity:    identityService,
			Reviews:     reviewsService,
			HTTPMetrics: httpMetrics,
			Gatherer:    registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "api server shutdown failed", err)
	}
	logg.Info(ctx, "api server shut down gracefully")
}
