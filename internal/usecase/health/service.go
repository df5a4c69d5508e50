// Package health aggregates readiness of the catalog index, the embedding cache and the provider.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing; replies still work.
	Degraded Status = "degraded"
	// Unhealthy indicates the catalog is not searchable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in Report.Checks.
const (
	ComponentCatalog   = "catalog"
	ComponentCache     = "cache"
	ComponentEmbedding = "embedding"
)

// Report aggregates health check results.
type Report struct {
	Status   Status
	Checks   map[string]CheckResult
	Products int
}

// Service coordinates health checks.
type Service struct {
	catalog   CatalogReader
	cache     CachePinger
	embedding EmbeddingChecker
}

// New creates a Service. cache and embedding can be nil.
func New(catalog CatalogReader, cache CachePinger, embedding EmbeddingChecker) *Service {
	return &Service{catalog: catalog, cache: cache, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	products := 0
	if s.catalog != nil {
		products = s.catalog.Len()
	}
	checks[ComponentCatalog] = result(products > 0)

	if s.cache != nil {
		checks[ComponentCache] = result(s.cache.Ping(ctx) == nil)
	}
	if s.embedding != nil {
		checks[ComponentEmbedding] = result(s.embedding.HealthCheck(ctx) == nil)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[ComponentCatalog] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks, Products: products}
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
