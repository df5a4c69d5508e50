package domain

import (
	"context"
	"fmt"
)

// Embedder maps text into the shared vector space used by the catalog and live queries.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in one provider call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries one vector and its token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// BatchEmbeddingResult carries vectors in input order plus aggregate token usage.
type BatchEmbeddingResult struct {
	Embeddings   [][]float32
	PromptTokens int
	TotalTokens  int
}

// EmbedAll vectorizes texts through BatchEmbed when e supports it and
// falls back to one Embed call per text otherwise.
func EmbedAll(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return BatchEmbeddingResult{}, nil
	}

	if be, ok := e.(BatchEmbedder); ok {
		res, err := be.BatchEmbed(ctx, texts)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("batch embed: %w", err)
		}
		if len(res.Embeddings) != len(texts) {
			return BatchEmbeddingResult{}, fmt.Errorf(
				"batch embed returned %d vectors for %d texts: %w",
				len(res.Embeddings), len(texts), ErrEmbeddingProviderError,
			)
		}
		return res, nil
	}

	return BatchFallback(ctx, e, texts)
}

// BatchFallback calls Embed once per text. Used for providers without a native batch call.
func BatchFallback(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	embeddings := make([][]float32, len(texts))
	var totalPrompt, totalTokens int

	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		embeddings[i] = res.Embedding
		totalPrompt += res.PromptTokens
		totalTokens += res.TotalTokens
	}

	return BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: totalPrompt,
		TotalTokens:  totalTokens,
	}, nil
}
