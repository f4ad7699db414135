// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"shortlink/internal/cache"
	"shortlink/internal/config"
	"shortlink/internal/database"
	"shortlink/internal/handler"
	"shortlink/internal/metrics"
	"shortlink/internal/repository"
	"shortlink/internal/repository/cached"
	"shortlink/internal/repository/memory"
	"shortlink/internal/repository/postgres"
	"shortlink/internal/service"
	"shortlink/internal/shortener"
	"shortlink/pkg/logger"
)

func main() {
	// Load environment variables from .env file (development only)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to read .env file: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Container health probe against the running server
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		os.Exit(healthcheck(cfg.Port))
	}

	appLogger := logger.NewLogger(logger.Options{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	defer appLogger.Sync()

	appLogger.Infow("Starting URL shortener", "environment", cfg.Environment, "storage", cfg.StorageDriver)

	repo, db, err := initRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize storage", "error", err)
	}

	var linkCache cache.Cache
	if cfg.CacheEnabled() {
		linkCache, err = cache.NewRedisCache(context.Background(), cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			appLogger.Warnw("Failed to initialize Redis cache, continuing without cache", "error", err)
			linkCache = nil
		} else {
			repo = cached.NewURLRepository(repo, linkCache, cfg.CacheTTL, appLogger)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	urlService := service.NewURLService(repo, shortener.NewCodeGenerator(), m, appLogger)
	urlHandler := handler.NewURLHandler(urlService, cfg.BaseURL, appLogger)

	opts := handler.RouterOptions{
		Metrics: m,
		Release: cfg.IsProduction(),
	}
	if cfg.MetricsEnabled {
		opts.Gatherer = registry
	}

	var httpHandler http.Handler = handler.SetupRouter(urlHandler, opts, appLogger)
	if cfg.TrustProxyHeaders {
		httpHandler = handlers.ProxyHeaders(httpHandler)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        httpHandler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		appLogger.Infow("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalw("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Infow("Shutting down server", "timeout", cfg.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Server forced to shutdown", "error", err)
	}

	if linkCache != nil {
		if err := linkCache.Close(); err != nil {
			appLogger.Errorw("Error closing Redis connection", "error", err)
		}
	}

	if db != nil {
		if err := database.Close(db); err != nil {
			appLogger.Errorw("Error closing database connection", "error", err)
		}
	}

	appLogger.Infow("Server exited")
}

// initRepository builds the configured store. db is nil for the memory driver.
func initRepository(cfg *config.Config, log *logger.Logger) (repository.URLRepository, *gorm.DB, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warnw("Using in-memory storage; mappings are lost on restart")
		return memory.NewURLRepository(), nil, nil

	default:
		db, err := database.Open(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewURLRepository(db), db, nil
	}
}

func healthcheck(port string) int {
	client := &http.Client{Timeout: 3 * time.Second}

	resp, err := client.Get(fmt.Sprintf("http://localhost:%s/health", port))
	if err != nil {
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 1
	}
	return 0
}
