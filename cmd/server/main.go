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

	"github.com/tomepromo/backend/config"
	httpDelivery "github.com/tomepromo/backend/internal/delivery/http"
	"github.com/tomepromo/backend/internal/domain"
	"github.com/tomepromo/backend/internal/extractor"
	"github.com/tomepromo/backend/internal/infrastructure/cache"
	"github.com/tomepromo/backend/internal/infrastructure/fetcher"
	"github.com/tomepromo/backend/internal/infrastructure/metrics"
	"github.com/tomepromo/backend/internal/logger"
	"github.com/tomepromo/backend/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("starting tomepromo backend",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type),
	)

	m := metrics.New()

	metadataCache, closeCache, err := newCache(cfg.Cache, zl)
	if err != nil {
		zl.Fatal("cache unavailable", zap.Error(err))
	}
	defer closeCache()

	client := fetcher.NewClient(fetcher.Config{
		MaxRedirects:      cfg.Scraper.MaxRedirects,
		MaxBodyBytes:      cfg.Scraper.MaxBodyBytes,
		Timeout:           cfg.Scraper.AttemptTimeout,
		RequestsPerSecond: cfg.Scraper.RequestsPerSecond,
	}, m, zl)

	ext := extractor.New(client, extractor.Config{
		UserAgent:        cfg.Scraper.UserAgent,
		CrawlerUserAgent: cfg.Scraper.CrawlerUserAgent,
		AttemptTimeout:   cfg.Scraper.AttemptTimeout,
		Retry: extractor.RetryPolicy{
			MaxAttempts:   cfg.Scraper.MaxRetries,
			Delay:         cfg.Scraper.RetryDelay,
			IsSoftFailure: extractor.SoftErrorDetector(cfg.Scraper.SoftErrorMarkers...),
		},
	}, zl)

	metadataService := usecase.NewMetadataService(metadataCache, ext, m, zl, usecase.MetadataServiceConfig{
		CacheTTL: cfg.Cache.TTL,
		DefaultAffiliate: domain.AffiliateParams{
			AmazonTag:        cfg.Affiliate.AmazonTag,
			MagazineVoceSlug: cfg.Affiliate.MagazineVoceSlug,
		},
	})

	handler := httpDelivery.NewHandler(metadataService, zl)
	router := httpDelivery.SetupRouter(cfg, handler, m, zl)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zl.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("could not start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}

	zl.Info("server exited")
}

// newCache builds the configured cache. A nil cache disables caching.
func newCache(cfg config.CacheConfig, zl *zap.Logger) (domain.CacheRepository, func(), error) {
	switch cfg.Type {
	case "redis":
		redisCache := cache.NewRedisCache(cache.RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisCache.Ping(ctx); err != nil {
			redisCache.Close()
			return nil, nil, err
		}
		zl.Info("redis cache connected", zap.String("addr", cfg.RedisAddr))
		return redisCache, func() { redisCache.Close() }, nil
	case "none":
		return nil, func() {}, nil
	default:
		memoryCache := cache.NewMemoryCache(0)
		return memoryCache, func() { memoryCache.Close() }, nil
	}
}
