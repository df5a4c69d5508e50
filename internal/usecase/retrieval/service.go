// Package retrieval ranks catalog products against a free-text query.
package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kailas-cloud/shopassist/internal/domain"
	domret "github.com/kailas-cloud/shopassist/internal/domain/retrieval"
)

// Defaults applied when the caller passes non-positive values.
const (
	DefaultTopK     = 4
	DefaultMinScore = 0.2
)

// Service is the semantic retriever: embed, score every entry, filter, rank, truncate.
type Service struct {
	index    IndexReader
	embed    Embedder
	minScore float64
}

// New creates a retriever. index may be nil (not built yet); searches then
// return a NoCatalog result.
func New(index IndexReader, embed Embedder) *Service {
	return &Service{index: index, embed: embed, minScore: DefaultMinScore}
}

// WithMinScore overrides the relevance floor.
func (s *Service) WithMinScore(v float64) *Service {
	s.minScore = v
	return s
}

// MinScore returns the relevance floor.
func (s *Service) MinScore() float64 { return s.minScore }

// Search returns up to topK products scoring at or above the floor, best first.
// Ties keep catalog order. Failures degrade to an empty result with a typed outcome.
func (s *Service) Search(ctx context.Context, query string, topK int) domret.Result {
	if topK <= 0 {
		topK = DefaultTopK
	}

	if s.index == nil || s.index.Len() == 0 {
		return domret.Empty(domret.NoCatalog, domain.ErrCatalogNotBuilt)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return domret.Empty(domret.EmptyQuery, nil)
	}

	res, err := s.embed.Embed(ctx, query)
	if err != nil {
		return domret.Empty(domret.EmbedFailed, fmt.Errorf("vectorize query: %w", err))
	}

	dims := s.index.Dimensions()
	if len(res.Embedding) != dims {
		return domret.Empty(domret.DimensionMismatch, fmt.Errorf(
			"query has %d dims, index has %d: %w", len(res.Embedding), dims, domain.ErrVectorDimMismatch,
		))
	}

	entries := s.index.Entries()
	hits := make([]domret.Hit, 0, topK)
	for i := range entries {
		score := cosine(res.Embedding, entries[i].Vector())
		// NaN compares false against the floor; a broken vector never matches.
		if math.IsNaN(score) || score < s.minScore {
			continue
		}
		hits = append(hits, domret.NewHit(entries[i].Product(), score))
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score() > hits[j].Score()
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}

	return domret.Found(hits)
}
