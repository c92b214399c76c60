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

	"go.uber.org/zap"

	"github.com/shoppingai/backend/config"
	httpDelivery "github.com/shoppingai/backend/internal/delivery/http"
	"github.com/shoppingai/backend/internal/domain"
	"github.com/shoppingai/backend/internal/infrastructure/cache"
	"github.com/shoppingai/backend/internal/infrastructure/catalog"
	"github.com/shoppingai/backend/internal/infrastructure/logger"
	"github.com/shoppingai/backend/internal/infrastructure/openai"
	"github.com/shoppingai/backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("starting ShoppingAI backend",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cacheType", cfg.Cache.Type))

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	jobCache, closeCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	completionClient := openai.NewClient(openai.Config{
		APIKey:            cfg.OpenAI.APIKey,
		BaseURL:           cfg.OpenAI.BaseURL,
		Model:             cfg.OpenAI.Model,
		Temperature:       cfg.OpenAI.Temperature,
		Timeout:           cfg.OpenAI.Timeout,
		RequestsPerMinute: cfg.RateLimit.OpenAI,
	}, zlog)

	zlog.Info("completion API configured",
		zap.String("baseUrl", cfg.OpenAI.BaseURL),
		zap.String("model", cfg.OpenAI.Model),
		zap.Float32("temperature", cfg.OpenAI.Temperature),
		zap.Duration("timeout", cfg.OpenAI.Timeout))

	// Initialize usecase layer
	products := usecase.NewProductService(catalog.NewMemoryStore())
	recommender := usecase.NewRecommendationService(completionClient, zlog)
	jobs := usecase.NewJobTracker(recommender, jobCache, usecase.JobTrackerConfig{TTL: cfg.Cache.TTL}, zlog)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(products, recommender, jobs, zlog)
	router := httpDelivery.SetupRouter(cfg, handler, zlog)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			jobs.Close()
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		zlog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}

	// Outstanding jobs end as failed/canceled before the cache goes away
	jobs.Close()
	zlog.Info("server stopped")
	return nil
}

// newCache builds the job-state cache selected by configuration
func newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, func(), error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return redisCache, func() { redisCache.Close() }, nil
	default:
		memoryCache := cache.NewMemoryCache(time.Minute)
		return memoryCache, func() { memoryCache.Close() }, nil
	}
}
