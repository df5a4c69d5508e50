package chi

import (
	"context"

	"github.com/kailas-cloud/shopassist/internal/domain/product"
	"github.com/kailas-cloud/shopassist/internal/domain/reply"
	healthuc "github.com/kailas-cloud/shopassist/internal/usecase/health"
)

// Assistant answers a shopper's message.
type Assistant interface {
	Respond(ctx context.Context, text string) reply.Reply
}

// Catalog lists indexed products in catalog order.
type Catalog interface {
	Len() int
	Products(limit int) []product.Product
}

// HealthChecker reports service readiness.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
