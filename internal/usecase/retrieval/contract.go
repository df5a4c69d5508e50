package retrieval

import (
	"context"

	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/domain/catalog"
)

// Embedder vectorizes query text into the catalog vector space.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// IndexReader is the read side of the catalog index. *catalog.Index implements it;
// an approximate index can replace it without touching the service.
type IndexReader interface {
	Entries() []catalog.Entry
	Dimensions() int
	Len() int
}
