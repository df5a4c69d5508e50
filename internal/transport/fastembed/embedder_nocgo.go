//go:build !cgo

package fastembed

import (
	"context"

	"github.com/kailas-cloud/shopassist/internal/domain"
)

// Embedder is a stub for non-cgo builds.
type Embedder struct{}

// NewEmbedder always fails without cgo.
func NewEmbedder(_ Config) (*Embedder, error) {
	return nil, ErrFastEmbedNotAvailable
}

// Name returns the provider label.
func (e *Embedder) Name() string { return "fastembed" }

// Dimensions returns 0 without cgo.
func (e *Embedder) Dimensions() int { return 0 }

// Embed returns ErrFastEmbedNotAvailable.
func (e *Embedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, ErrFastEmbedNotAvailable
}

// BatchEmbed returns ErrFastEmbedNotAvailable.
func (e *Embedder) BatchEmbed(_ context.Context, _ []string) (domain.BatchEmbeddingResult, error) {
	return domain.BatchEmbeddingResult{}, ErrFastEmbedNotAvailable
}

// HealthCheck returns ErrFastEmbedNotAvailable.
func (e *Embedder) HealthCheck(_ context.Context) error { return ErrFastEmbedNotAvailable }

// Close is a no-op.
func (e *Embedder) Close() error { return nil }
