//go:build cgo

package fastembed

import (
	"context"
	"fmt"
	"sync"
	"time"

	fastembed "github.com/anush008/fastembed-go"

	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/metrics"
)

const providerName = "fastembed"

var modelMapping = map[string]fastembed.EmbeddingModel{
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
	"fast-all-MiniLM-L6-v2":                  fastembed.AllMiniLML6V2,
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"fast-bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"fast-bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
}

// Compile-time check.
var _ domain.BatchEmbedder = (*Embedder)(nil)

// Embedder runs a local ONNX embedding model.
type Embedder struct {
	mu        sync.Mutex
	model     *fastembed.FlagEmbedding
	name      string
	dims      int
	batchSize int
}

// NewEmbedder downloads (first run) and loads the model.
func NewEmbedder(cfg Config) (*Embedder, error) {
	cfg.applyDefaults()

	model, ok := modelMapping[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("fastembed: unsupported model %q", cfg.Model)
	}
	dims, err := ModelDimensions(cfg.Model)
	if err != nil {
		return nil, err
	}

	showProgress := false
	fe, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             cfg.CacheDir,
		MaxLength:            cfg.MaxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("init fastembed %s: %w", cfg.Model, err)
	}

	return &Embedder{model: fe, name: cfg.Model, dims: dims, batchSize: cfg.BatchSize}, nil
}

// Name returns the provider label used in metrics.
func (e *Embedder) Name() string { return providerName }

// Dimensions returns the model vector size.
func (e *Embedder) Dimensions() int { return e.dims }

// Embed implements domain.Embedder. Local models report no token usage.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.run(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: res[0]}, nil
}

// BatchEmbed implements domain.BatchEmbedder.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	vecs, err := e.run(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, err
	}
	return domain.BatchEmbeddingResult{Embeddings: vecs}, nil
}

// HealthCheck reports whether the model is still loaded.
func (e *Embedder) HealthCheck(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return fmt.Errorf("fastembed: model closed: %w", domain.ErrEmbeddingProviderError)
	}
	return nil
}

// Close releases the ONNX session.
func (e *Embedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return nil
	}
	err := e.model.Destroy()
	e.model = nil
	return err
}

// run embeds texts without any query/passage prefix; MiniLM is a symmetric model.
func (e *Embedder) run(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.model == nil {
		return nil, fmt.Errorf("fastembed: model closed: %w", domain.ErrEmbeddingProviderError)
	}

	start := time.Now()
	vecs, err := e.model.Embed(texts, e.batchSize)
	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.name, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.name, "inference_error").Inc()
		return nil, fmt.Errorf("fastembed inference: %v: %w", err, domain.ErrEmbeddingProviderError)
	}
	if len(vecs) != len(texts) {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.name, "error").Inc()
		return nil, fmt.Errorf("fastembed returned %d vectors for %d texts: %w",
			len(vecs), len(texts), domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.name, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName, e.name).Observe(time.Since(start).Seconds())
	return vecs, nil
}
