// Command warmcache embeds the whole catalog through the cache-backed embedder
// so that server startups read vectors from the cache instead of the provider.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/bootstrap"
	"github.com/kailas-cloud/shopassist/internal/config"
	logpkg "github.com/kailas-cloud/shopassist/internal/logger"
	"github.com/kailas-cloud/shopassist/internal/metrics"
	"github.com/kailas-cloud/shopassist/internal/version"
)

func main() {
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

	if !cfg.Cache.Enabled() {
		logger.Fatal("Cache is not configured; set cache.addrs")
	}

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterAssistantMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenCache(ctx, cfg.Cache, logger)
	if err != nil {
		logger.Fatal("Embedding cache unavailable", zap.Error(err))
	}
	defer store.Close()

	emb, err := bootstrap.NewEmbedding(&cfg, store, logger)
	if err != nil {
		logger.Fatal("Failed to create embedder", zap.Error(err))
	}
	defer func() { _ = emb.Close() }()

	logger.Info("Warming embedding cache",
		zap.String("version", version.Version),
		zap.String("catalog", cfg.Catalog.Path),
		zap.String("provider", emb.Provider),
		zap.String("model", emb.Model),
	)

	start := time.Now()
	index, err := bootstrap.BuildIndex(ctx, cfg.Catalog.Path, emb, logger)
	if err != nil {
		logger.Fatal("Cache warm-up failed", zap.Error(err))
	}

	logger.Info("Embedding cache warm",
		zap.Int("products", index.Len()),
		zap.Int("dimensions", index.Dimensions()),
		zap.Duration("took", time.Since(start)),
	)
}
