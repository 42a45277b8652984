package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/cache"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/config"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/gateway"
	h "github.com/tringuyen-psa/shopify-shop-sub004/internal/http"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/metrics"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/publisher"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/repository"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/service"
	"github.com/tringuyen-psa/shopify-shop-sub004/internal/store"
)

func main() {
	cfg := config.MustLoad()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	metrics.Register()

	sessions, orders, products, closeStores, err := buildStores(cfg, log)
	if err != nil {
		log.Error("failed to init storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStores()

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		products = cache.NewCachedProductStore(products, cache.NewRedisCache(rdb), log)
		log.Info("product cache enabled", slog.String("addr", cfg.Redis.Addr))
	}

	var gw gateway.PaymentGateway
	if cfg.Gateway.BaseURL != "" {
		gw = gateway.NewProviderClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Timeout)
	} else {
		log.Warn("no payment gateway configured, using simulated provider")
		gw = gateway.NewSimulated()
	}
	gw = gateway.WithBreaker(gw, "payment-provider")

	var events publisher.EventPublisher = publisher.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := publisher.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer kp.Close()
		events = kp
	}

	materializer := service.NewOrderMaterializer(orders, events, log)
	checkout := service.NewCheckoutService(
		sessions,
		products,
		gw,
		materializer,
		cfg.Checkout.SessionTTL,
		cfg.Gateway.Timeout,
		log,
	)

	checkoutHandler := h.NewCheckoutHandler(checkout, cfg.HTTP.RequestTimeout)
	ordersHandler := h.NewOrdersHandler(checkout, orders, cfg.HTTP.RequestTimeout)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDHeader)
	r.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/checkout", func(r chi.Router) {
		r.Post("/create-session", checkoutHandler.CreateSession)
		r.Post("/create-payment-intent", checkoutHandler.CreatePaymentIntent)
		r.Get("/sessions/{session_id}", checkoutHandler.GetSession)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Use(h.AuthMiddleware(cfg.Auth.JWTSecret))
		r.Post("/confirm", ordersHandler.Confirm)
		r.Get("/", ordersHandler.ListOrders)
		r.Get("/{order_number}", ordersHandler.GetOrder)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      otelhttp.NewHandler(r, "checkout-service"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("checkout service starting", slog.String("port", cfg.HTTP.Port), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server exited")
}

func buildStores(cfg config.Config, log *slog.Logger) (store.SessionStore, store.OrderStore, store.ProductStore, func(), error) {
	if cfg.Store.Backend == "memory" {
		mem := store.NewMemoryStore()
		mem.SeedProducts(demoProducts()...)
		log.Warn("using in-memory stores, data is not durable")
		return mem, mem, mem, func() {}, nil
	}

	cred := &repository.Credentials{
		Host:              cfg.Postgres.Host,
		Port:              cfg.Postgres.Port,
		User:              cfg.Postgres.User,
		Password:          cfg.Postgres.Password,
		DBName:            cfg.Postgres.DBName,
		MigrationsDirPath: cfg.Postgres.MigrationsDirPath,
		ConnRetryAttempts: cfg.Postgres.ConnRetryAttempts,
		ConnRetryDelay:    cfg.Postgres.ConnRetryDelay,
	}

	repo, err := repository.NewRepository(cred)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if err := repo.RunMigrations(cred); err != nil {
		repo.Close()
		return nil, nil, nil, nil, err
	}

	log.Info("connected to postgres", slog.String("host", cfg.Postgres.Host), slog.String("db", cfg.Postgres.DBName))
	closer := func() {
		if err := repo.Close(); err != nil {
			log.Error("failed to close repository", slog.Any("error", err))
		}
	}
	return repo, repo, repo, closer, nil
}

func demoProducts() []*domain.Product {
	monthly := 15.00
	yearly := 150.00
	return []*domain.Product{
		{
			ID:        "prod-basic-tee",
			Name:      "Basic Tee",
			Type:      domain.ProductTypePhysical,
			Currency:  "USD",
			BasePrice: 19.99,
			Active:    true,
		},
		{
			ID:           "prod-pro-plan",
			Name:         "Pro Plan",
			Type:         domain.ProductTypeDigital,
			Currency:     "USD",
			BasePrice:    25.00,
			MonthlyPrice: &monthly,
			YearlyPrice:  &yearly,
			Active:       true,
		},
	}
}
