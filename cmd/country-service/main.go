package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/config"
	"github.com/LavaJover/shvark-country-service/internal/delivery/httpapi"
	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/imaging"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/openerapi"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-country-service/internal/infrastructure/restcountries"
	"github.com/LavaJover/shvark-country-service/internal/usecase"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	logger := setupLogger(cfg.LogConfig)
	slog.SetDefault(logger)

	// Init database
	db := postgres.MustInitDB(cfg)
	defer postgres.Close(db)

	if err := migrate.RunMigrations(db, cfg.Migrations.Path); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Init country repo
	countryRepo := repository.NewDefaultCountryRepository(db)

	// Upstream clients
	countriesClient := restcountries.NewClient(cfg.Upstream.CountriesURL, cfg.Upstream.Timeout)
	ratesClient := openerapi.NewClient(cfg.Upstream.RatesURL, cfg.Upstream.Timeout)

	// Summary renderer
	renderer := imaging.NewSummaryRenderer(cfg.Summary.ImagePath)

	// Refresh event publisher (optional)
	var publisher domain.RefreshEventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := kafka.NewRefreshEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("refresh event publisher enabled", "topic", cfg.Kafka.Topic)
	}

	refreshMetrics := metrics.NewRefreshMetrics()

	// Init usecases
	refreshUsecase := usecase.NewDefaultRefreshUsecase(
		countriesClient,
		ratesClient,
		countryRepo,
		renderer,
		publisher,
		refreshMetrics,
		logger,
	)
	countryUsecase := usecase.NewDefaultCountryUsecase(countryRepo)

	handler := httpapi.NewCountryHandler(refreshUsecase, countryUsecase, cfg.Summary.ImagePath, logger)
	router := httpapi.NewRouter(handler)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server started", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to serve: %v\n", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
