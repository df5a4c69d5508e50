package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/bootstrap"
	"github.com/kailas-cloud/shopassist/internal/config"
	logpkg "github.com/kailas-cloud/shopassist/internal/logger"
	"github.com/kailas-cloud/shopassist/internal/metrics"
	chiTransport "github.com/kailas-cloud/shopassist/internal/transport/chi"
	"github.com/kailas-cloud/shopassist/internal/usecase/assistant"
	healthuc "github.com/kailas-cloud/shopassist/internal/usecase/health"
	"github.com/kailas-cloud/shopassist/internal/usecase/intent"
	"github.com/kailas-cloud/shopassist/internal/usecase/retrieval"
	"github.com/kailas-cloud/shopassist/internal/usecase/synth"
	"github.com/kailas-cloud/shopassist/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting shopassist API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog", cfg.Catalog.Path),
		zap.String("embedding_provider", cfg.Embedding.Provider),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterAssistantMetrics()

	ctx := context.Background()

	// Optional embedding cache
	store, err := bootstrap.OpenCache(ctx, cfg.Cache, logger)
	if err != nil {
		logger.Fatal("Embedding cache unavailable", zap.Error(err))
	}
	// Pass nil interface (not typed nil pointer) to health when the cache is off.
	var cachePinger healthuc.CachePinger
	if store != nil {
		defer store.Close()
		cachePinger = store
	}

	// Embedder chain
	emb, err := bootstrap.NewEmbedding(&cfg, store, logger)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	defer func() { _ = emb.Close() }()
	logger.Info("Embedder created",
		zap.String("provider", emb.Provider),
		zap.String("model", emb.Model),
		zap.Int("dimensions", emb.Dimensions),
		zap.Bool("cached", store != nil),
	)

	// Catalog index, built once at startup
	start := time.Now()
	index, err := bootstrap.BuildIndex(ctx, cfg.Catalog.Path, emb, logger)
	if err != nil {
		logger.Fatal("Failed to build catalog index", zap.Error(err))
	}
	logger.Info("Catalog index ready",
		zap.Int("products", index.Len()),
		zap.Duration("took", time.Since(start)),
	)

	// Use cases
	retriever := retrieval.New(index, emb.Embedder).WithMinScore(cfg.Retrieval.MinScore)
	assistantSvc := assistant.New(
		intent.NewDefault(),
		retriever,
		synth.New(cfg.Catalog.Currency),
		logger,
	).WithTopK(cfg.Retrieval.TopK)
	healthSvc := healthuc.New(index, cachePinger, emb.Breaker)

	// HTTP
	server := chiTransport.NewServer(assistantSvc, index, healthSvc, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:        cfg.Auth.APIKeys,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		CORSMaxAge:     cfg.CORS.MaxAgeSec,
		RateLimit:      cfg.RateLimit.Requests,
		RateWindow:     time.Duration(cfg.RateLimit.WindowSec) * time.Second,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
