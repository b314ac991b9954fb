package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/da7a90-backup/rihla-travel-agency/internal/api"
	"github.com/da7a90-backup/rihla-travel-agency/internal/api/middleware"
	"github.com/da7a90-backup/rihla-travel-agency/internal/config"
	"github.com/da7a90-backup/rihla-travel-agency/internal/infrastructure/amadeus"
	"github.com/da7a90-backup/rihla-travel-agency/internal/infrastructure/cache"
	"github.com/da7a90-backup/rihla-travel-agency/internal/infrastructure/kafka"
	"github.com/da7a90-backup/rihla-travel-agency/internal/infrastructure/postgres"
	redisinfra "github.com/da7a90-backup/rihla-travel-agency/internal/infrastructure/redis"
	"github.com/da7a90-backup/rihla-travel-agency/internal/usecase"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Response cache: in-process by default, Redis when replicas must
	// share entries. The Redis client, when present, also backs the
	// booking idempotency guard.
	var store cache.Store
	var redisClient *redis.Client
	if strings.EqualFold(cfg.Cache.Backend, "redis") {
		redisClient, err = redisinfra.NewClient(ctx, redisinfra.Config{Addr: cfg.Redis.Addr})
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		store = cache.NewRedis(redisClient, cfg.Cache.TTL)
	} else {
		store = cache.NewMemory(cfg.Cache.TTL)
	}

	client := amadeus.NewClient(amadeus.Config{
		BaseURL:         cfg.Amadeus.BaseURL,
		ClientID:        cfg.Amadeus.ClientID,
		ClientSecret:    cfg.Amadeus.ClientSecret,
		RequestCurrency: cfg.Amadeus.RequestCurrency,
		DisplayCurrency: cfg.Amadeus.DisplayCurrency,
		ConversionRate:  cfg.Amadeus.ConversionRate,
		MaxResults:      cfg.Amadeus.MaxResults,
		TokenSafetyGap:  cfg.Amadeus.TokenSafetyGap,
		RequestTimeout:  cfg.Amadeus.RequestTimeout,
	}, store)

	resolver := amadeus.NewReferenceResolver(client)
	go resolver.Warm(ctx)

	composer := usecase.NewComposer(cfg.Compose.MaxOffersPerLeg)
	searchUC := usecase.NewSearch(client, composer)
	scheduler := usecase.NewScheduler(client, cfg.Calendar.MinInterval, cfg.Calendar.BackoffPenalty)

	pgPool, err := postgres.NewClient(ctx, postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
	})
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()

	var producer usecase.EventProducer
	if cfg.Kafka.Enabled {
		kafkaProducer := kafka.NewProducer(kafka.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer kafkaProducer.Close()
		producer = kafkaProducer
	}

	bookings := usecase.NewBookings(postgres.NewBookingRepository(pgPool), producer)

	handlers := api.NewHandlers(searchUC, scheduler, bookings, resolver)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           corsHandler.Handler(api.NewRouter(handlers, middleware.Idempotency(redisClient))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.HTTP.Port, "app", cfg.App.Name, "version", cfg.App.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exiting")
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
