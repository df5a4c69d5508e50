// Package bootstrap assembles the storage and embedding stack shared by the
// server and the cache warmer.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/config"
	"github.com/kailas-cloud/shopassist/internal/db/redis"
	"github.com/kailas-cloud/shopassist/internal/domain"
	domcat "github.com/kailas-cloud/shopassist/internal/domain/catalog"
	"github.com/kailas-cloud/shopassist/internal/metrics"
	catalogrepo "github.com/kailas-cloud/shopassist/internal/repository/catalog"
	"github.com/kailas-cloud/shopassist/internal/repository/embcache"
	"github.com/kailas-cloud/shopassist/internal/transport/fastembed"
	openaiEmb "github.com/kailas-cloud/shopassist/internal/transport/openai"
	cataloguc "github.com/kailas-cloud/shopassist/internal/usecase/catalog"
	embeddinguc "github.com/kailas-cloud/shopassist/internal/usecase/embedding"
)

// Provider names accepted in embedding.provider.
const (
	ProviderOpenAI    = "openai"
	ProviderFastEmbed = "fastembed"
)

// provider is what the decorator chain needs from a concrete embedding backend.
type provider interface {
	domain.Embedder
	Name() string
}

// Embedding is the assembled embedder chain.
type Embedding struct {
	// Embedder is the outermost decorator; use it for catalog and queries alike.
	Embedder domain.Embedder
	// Breaker guards the provider and answers health checks.
	Breaker    *embeddinguc.BreakerEmbedder
	Provider   string
	Model      string
	Dimensions int // 0 when the provider does not fix it

	closeFn func() error
}

// Close releases provider resources (the local ONNX runtime).
func (e *Embedding) Close() error {
	if e.closeFn == nil {
		return nil
	}
	return e.closeFn()
}

// OpenCache connects the embedding cache store. Returns nil, nil when the
// cache is not configured.
func OpenCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (*redis.Store, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	store, err := redis.NewStore(redis.Config{
		Driver:   cfg.Driver,
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache store: %w", err)
	}

	timeout := time.Duration(cfg.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("cache store not ready: %w", err)
	}

	logger.Info("Connected to embedding cache",
		zap.String("driver", store.Driver()),
		zap.Strings("addrs", cfg.Addrs),
	)
	return store, nil
}

// NewEmbedding builds provider -> breaker -> cache (when store != nil) -> instrumented.
func NewEmbedding(cfg *config.Config, store *redis.Store, logger *zap.Logger) (*Embedding, error) {
	emb := cfg.Embedding

	base, model, dims, closeFn, err := newProvider(emb, logger)
	if err != nil {
		return nil, err
	}
	if emb.Dimensions > 0 {
		dims = emb.Dimensions
	}

	breaker := embeddinguc.NewBreakerEmbedder(base, base.Name(), embeddinguc.BreakerConfig{
		MaxFailures: emb.Breaker.MaxFailures,
		OpenTimeout: time.Duration(emb.Breaker.OpenSec) * time.Second,
		HalfOpenMax: emb.Breaker.HalfOpenMax,
	}, logger)

	var embedder domain.Embedder = breaker
	if store != nil {
		namespace := CacheNamespace(cfg.Cache.KeyPrefix, base.Name(), model, dims)
		embedder = embcache.New(breaker, store, namespace, metrics.EmbeddingCacheTotal, logger).
			WithTTL(time.Duration(cfg.Cache.TTLSec) * time.Second)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, base.Name(), model, logger).
		WithBatchSize(cfg.Retrieval.BuildBatchSize)

	return &Embedding{
		Embedder:   embedder,
		Breaker:    breaker,
		Provider:   base.Name(),
		Model:      model,
		Dimensions: dims,
		closeFn:    closeFn,
	}, nil
}

// CacheNamespace scopes cached vectors to one vector space.
func CacheNamespace(prefix, provider, model string, dims int) string {
	return fmt.Sprintf("%s%s:%s:%d:", prefix, provider, model, dims)
}

func newProvider(emb config.EmbeddingConfig, logger *zap.Logger) (provider, string, int, func() error, error) {
	switch emb.Provider {
	case ProviderOpenAI:
		e := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     emb.APIKey,
			BaseURL:    emb.BaseURL,
			Model:      emb.Model,
			Dimensions: emb.Dimensions,
			Provider:   ProviderOpenAI,
			Logger:     logger,
		})
		return e, emb.Model, emb.Dimensions, nil, nil
	case ProviderFastEmbed:
		model := emb.Model
		if model == "" {
			model = fastembed.DefaultModel
		}
		e, err := fastembed.NewEmbedder(fastembed.Config{
			Model:    model,
			CacheDir: emb.CacheDir,
		})
		if err != nil {
			return nil, "", 0, nil, fmt.Errorf("create fastembed provider: %w", err)
		}
		return e, model, e.Dimensions(), e.Close, nil
	default:
		return nil, "", 0, nil, fmt.Errorf("unknown embedding provider %q", emb.Provider)
	}
}

// BuildIndex loads the catalog file and embeds every unique product.
func BuildIndex(ctx context.Context, path string, emb *Embedding, logger *zap.Logger) (*domcat.Index, error) {
	products, err := catalogrepo.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("Catalog loaded", zap.String("path", path), zap.Int("records", len(products)))

	idx, err := cataloguc.New(emb.Embedder, logger).
		WithDimensions(emb.Dimensions).
		Build(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("build catalog index: %w", err)
	}
	return idx, nil
}
