package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/metrics"
)

// BreakerConfig holds circuit breaker thresholds.
type BreakerConfig struct {
	MaxFailures uint32        // consecutive failures that open the circuit
	OpenTimeout time.Duration // time in open state before a half-open probe
	HalfOpenMax uint32        // requests allowed through while half-open
}

// Compile-time check.
var _ domain.BatchEmbedder = (*BreakerEmbedder)(nil)

// BreakerEmbedder fails fast with domain.ErrCircuitOpen while the provider is unhealthy.
// Single and batch calls share one breaker.
type BreakerEmbedder struct {
	inner    domain.Embedder
	provider string
	cb       *gobreaker.CircuitBreaker[domain.BatchEmbeddingResult]
}

// NewBreakerEmbedder wraps inner with a circuit breaker.
func NewBreakerEmbedder(inner domain.Embedder, provider string, cfg BreakerConfig, logger *zap.Logger) *BreakerEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.HalfOpenMax == 0 {
		cfg.HalfOpenMax = 1
	}

	state := metrics.EmbeddingBreakerState.WithLabelValues(provider)
	state.Set(float64(gobreaker.StateClosed))

	settings := gobreaker.Settings{
		Name:        "embedding-" + provider,
		MaxRequests: cfg.HalfOpenMax,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// Caller cancellations say nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			state.Set(float64(to))
			logger.Warn("Embedding circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &BreakerEmbedder{
		inner:    inner,
		provider: provider,
		cb:       gobreaker.NewCircuitBreaker[domain.BatchEmbeddingResult](settings),
	}
}

// State returns the current breaker state name (closed, half-open, open).
func (b *BreakerEmbedder) State() string { return b.cb.State().String() }

// Embed runs a single embed through the breaker.
func (b *BreakerEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := b.cb.Execute(func() (domain.BatchEmbeddingResult, error) {
		r, err := b.inner.Embed(ctx, text)
		if err != nil {
			return domain.BatchEmbeddingResult{}, err
		}
		return domain.BatchEmbeddingResult{
			Embeddings:   [][]float32{r.Embedding},
			PromptTokens: r.PromptTokens,
			TotalTokens:  r.TotalTokens,
		}, nil
	})
	if err != nil {
		return domain.EmbeddingResult{}, b.mapErr(err)
	}
	return domain.EmbeddingResult{
		Embedding:    res.Embeddings[0],
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// BatchEmbed runs a batch embed through the breaker.
func (b *BreakerEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	res, err := b.cb.Execute(func() (domain.BatchEmbeddingResult, error) {
		return domain.EmbedAll(ctx, b.inner, texts)
	})
	if err != nil {
		return domain.BatchEmbeddingResult{}, b.mapErr(err)
	}
	return res, nil
}

// HealthCheck reports an open circuit as unhealthy, otherwise asks the provider.
func (b *BreakerEmbedder) HealthCheck(ctx context.Context) error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%s: %w", b.provider, domain.ErrCircuitOpen)
	}
	if hc, ok := b.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (b *BreakerEmbedder) mapErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", b.provider, domain.ErrCircuitOpen)
	}
	return err
}
