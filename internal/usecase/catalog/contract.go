package catalog

import (
	"context"

	"github.com/kailas-cloud/shopassist/internal/domain"
)

// Embedder vectorizes catalog search texts. BatchEmbed is used when the
// implementation also satisfies domain.BatchEmbedder.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
