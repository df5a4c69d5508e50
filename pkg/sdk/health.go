package shopassist

import "context"

// HealthStatus represents the aggregated assistant health.
type HealthStatus struct {
	Status   string            // "ok", "degraded", "error"
	Checks   map[string]string // component → "ok"/"error"
	Products int
}

// Health checks the catalog index and, when configured, the cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:   string(report.Status),
		Checks:   checks,
		Products: report.Products,
	}
}
