package domain

import "errors"

var (
	// ErrCatalogNotBuilt signals that the catalog index has not been built yet.
	ErrCatalogNotBuilt = errors.New("catalog not built")
	// ErrEmptyCatalog signals that a catalog source produced no products.
	ErrEmptyCatalog = errors.New("catalog is empty")
	// ErrDuplicateSKU signals two index entries sharing one SKU.
	ErrDuplicateSKU = errors.New("duplicate sku")
	// ErrInvalidRecord signals a product record that cannot be parsed.
	ErrInvalidRecord = errors.New("invalid product record")
	// ErrVectorDimMismatch signals a vector whose length differs from the index dimensionality.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCircuitOpen signals that the embedding provider breaker is rejecting calls.
	ErrCircuitOpen = errors.New("embedding circuit open")
	// ErrUnsupportedFormat signals a catalog file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)
