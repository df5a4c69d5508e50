package shopassist

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/shopassist/internal/domain"
)

// Embedder converts text to vector embeddings. Catalog texts and shopper
// queries go through the same embedder.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single API call.
// Optional: if the provided Embedder also implements BatchEmbedder,
// the catalog build uses it.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries multiple embedding vectors and aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// adaptEmbedder wraps a public Embedder to satisfy domain.Embedder, keeping
// batch support when the caller provides it.
func adaptEmbedder(e Embedder) domain.Embedder {
	a := &embedderAdapter{inner: e}
	if be, ok := e.(BatchEmbedder); ok {
		return &batchEmbedderAdapter{embedderAdapter: a, batch: be}
	}
	return a
}

type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

type batchEmbedderAdapter struct {
	*embedderAdapter
	batch BatchEmbedder
}

func (a *batchEmbedderAdapter) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	r, err := a.batch.BatchEmbed(ctx, texts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   r.Embeddings,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
