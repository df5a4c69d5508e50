// Package embedding holds embedder decorators: observability, batching and
// circuit breaking around a concrete provider.
package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/logger"
)

// DefaultMaxAPIBatchSize: максимальный размер батча для одного запроса к провайдеру.
const DefaultMaxAPIBatchSize = 256

// Compile-time check.
var _ domain.BatchEmbedder = (*InstrumentedEmbedder)(nil)

// InstrumentedEmbedder wraps Embedder with logging and batch chunking.
// Transport metrics (requests, duration, tokens) are recorded by the providers.
type InstrumentedEmbedder struct {
	inner     domain.Embedder
	provider  string
	model     string
	batchSize int
	logger    *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder with observability.
func NewInstrumentedEmbedder(inner domain.Embedder, provider, model string, logger *zap.Logger) *InstrumentedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:     inner,
		provider:  provider,
		model:     model,
		batchSize: DefaultMaxAPIBatchSize,
		logger:    logger,
	}
}

// WithBatchSize caps how many texts go into one provider call.
func (p *InstrumentedEmbedder) WithBatchSize(n int) *InstrumentedEmbedder {
	if n > 0 {
		p.batchSize = n
	}
	return p
}

// Embed delegates to the inner embedder and logs the outcome.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	log := logger.FromContextOr(ctx, p.logger)
	start := time.Now()

	result, err := p.inner.Embed(ctx, text)

	duration := time.Since(start)

	if err != nil {
		log.Error("Embedding request failed",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	log.Debug("Embedding request completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", duration),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)
	domain.UsageFromContext(ctx).AddTokens(result.TotalTokens)

	return result, nil
}

// BatchEmbed разбивает на sub-batches и делегирует inner.
func (p *InstrumentedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	log := logger.FromContextOr(ctx, p.logger)
	start := time.Now()

	var out domain.BatchEmbeddingResult
	for offset := 0; offset < len(texts); offset += p.batchSize {
		end := min(offset+p.batchSize, len(texts))
		chunk := texts[offset:end]

		res, err := domain.EmbedAll(ctx, p.inner, chunk)
		if err != nil {
			log.Error("Batch embedding request failed",
				zap.String("provider", p.provider),
				zap.String("model", p.model),
				zap.Int("chunk_offset", offset),
				zap.Int("chunk_size", len(chunk)),
				zap.Error(err),
			)
			return domain.BatchEmbeddingResult{}, fmt.Errorf("batch embed chunk %d: %w", offset, err)
		}

		out.Embeddings = append(out.Embeddings, res.Embeddings...)
		out.PromptTokens += res.PromptTokens
		out.TotalTokens += res.TotalTokens
	}

	log.Debug("Batch embedding completed",
		zap.String("provider", p.provider),
		zap.String("model", p.model),
		zap.Duration("duration", time.Since(start)),
		zap.Int("batch_size", len(texts)),
		zap.Int("total_tokens", out.TotalTokens),
	)
	domain.UsageFromContext(ctx).AddTokens(out.TotalTokens)

	return out, nil
}
