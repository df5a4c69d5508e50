package shopassist

import "github.com/kailas-cloud/shopassist/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyCatalog           = domain.ErrEmptyCatalog
	ErrInvalidRecord          = domain.ErrInvalidRecord
	ErrUnsupportedFormat      = domain.ErrUnsupportedFormat
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
