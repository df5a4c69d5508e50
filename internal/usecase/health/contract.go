package health

import "context"

// CatalogReader reports how many products the index holds.
type CatalogReader interface {
	Len() int
}

// CachePinger checks embedding cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
