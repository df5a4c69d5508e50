// Package retrieval describes the outcome of a semantic catalog search.
package retrieval

import "github.com/kailas-cloud/shopassist/internal/domain/product"

// Outcome classifies how a search ended. Failure outcomes still carry an empty, usable result.
type Outcome string

// Search outcomes.
const (
	// Matched means at least one product cleared the relevance floor.
	Matched Outcome = "matched"
	// BelowFloor means the search ran but nothing scored at or above the floor.
	BelowFloor Outcome = "below_floor"
	// EmptyQuery means the query text was blank after trimming.
	EmptyQuery Outcome = "empty_query"
	// NoCatalog means the catalog index is missing or empty.
	NoCatalog Outcome = "no_catalog"
	// EmbedFailed means the query could not be embedded.
	EmbedFailed Outcome = "embed_failed"
	// DimensionMismatch means the query vector does not fit the index.
	DimensionMismatch Outcome = "dimension_mismatch"
)

// IsFailure reports whether the outcome is a degraded path rather than a real answer.
func (o Outcome) IsFailure() bool {
	return o == NoCatalog || o == EmbedFailed || o == DimensionMismatch
}

// Hit is a single ranked product with its cosine similarity.
type Hit struct {
	product product.Product
	score   float64
}

// NewHit creates a hit.
func NewHit(p product.Product, score float64) Hit {
	return Hit{product: p, score: score}
}

// Product returns the matched product.
func (h *Hit) Product() product.Product { return h.product }

// Score returns the cosine similarity in [-1, 1].
func (h *Hit) Score() float64 { return h.score }

// Result is an ordered list of hits plus the outcome that produced it.
type Result struct {
	hits    []Hit
	outcome Outcome
	cause   error
}

// Found creates a result from ranked hits. An empty list yields BelowFloor.
func Found(hits []Hit) Result {
	if len(hits) == 0 {
		return Result{outcome: BelowFloor}
	}
	return Result{hits: hits, outcome: Matched}
}

// Empty creates a hit-less result with the given outcome and optional cause.
func Empty(outcome Outcome, cause error) Result {
	return Result{outcome: outcome, cause: cause}
}

// Hits returns hits in descending score order.
func (r *Result) Hits() []Hit { return r.hits }

// Len returns the number of hits.
func (r *Result) Len() int { return len(r.hits) }

// IsEmpty reports whether there are no hits.
func (r *Result) IsEmpty() bool { return len(r.hits) == 0 }

// Outcome returns how the search ended.
func (r *Result) Outcome() Outcome { return r.outcome }

// Cause returns the error behind a failure outcome, nil otherwise.
func (r *Result) Cause() error { return r.cause }
