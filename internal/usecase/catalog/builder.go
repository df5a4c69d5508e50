// Package catalog builds the searchable catalog index from product records.
package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/domain"
	domcat "github.com/kailas-cloud/shopassist/internal/domain/catalog"
	"github.com/kailas-cloud/shopassist/internal/domain/product"
	"github.com/kailas-cloud/shopassist/internal/metrics"
)

// Builder turns product records into a catalog index.
type Builder struct {
	embed  Embedder
	dims   int
	logger *zap.Logger
}

// New creates a builder.
func New(embed Embedder, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{embed: embed, logger: logger}
}

// WithDimensions makes Build reject vectors of any other length.
func (b *Builder) WithDimensions(d int) *Builder {
	b.dims = d
	return b
}

// Build dedupes products by SKU (first occurrence wins, order kept), derives
// search texts, embeds them and returns the index. Any embedding failure or
// dimension mismatch fails the whole build.
func (b *Builder) Build(ctx context.Context, products []product.Product) (*domcat.Index, error) {
	unique := Dedupe(products)
	if len(unique) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	texts := make([]string, len(unique))
	for i := range unique {
		texts[i] = domcat.SearchText(unique[i])
	}

	start := time.Now()
	res, err := domain.EmbedAll(ctx, b.embed, texts)
	if err != nil {
		return nil, fmt.Errorf("embed catalog: %w", err)
	}

	entries := make([]domcat.Entry, len(unique))
	for i := range unique {
		vec := res.Embeddings[i]
		if b.dims > 0 && len(vec) != b.dims {
			return nil, fmt.Errorf("product %s: got %d dims, want %d: %w",
				unique[i].SKU(), len(vec), b.dims, domain.ErrVectorDimMismatch)
		}
		entries[i] = domcat.NewEntry(unique[i], texts[i], vec)
	}

	idx, err := domcat.NewIndex(entries)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	metrics.CatalogEntries.Set(float64(idx.Len()))
	b.logger.Info("Catalog index built",
		zap.Int("records", len(products)),
		zap.Int("products", idx.Len()),
		zap.Int("dimensions", idx.Dimensions()),
		zap.Int("total_tokens", res.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)
	return idx, nil
}

// Dedupe keeps the first product for every SKU, preserving order.
func Dedupe(products []product.Product) []product.Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]product.Product, 0, len(products))
	for i := range products {
		sku := products[i].SKU()
		if _, dup := seen[sku]; dup {
			continue
		}
		seen[sku] = struct{}{}
		out = append(out, products[i])
	}
	return out
}
