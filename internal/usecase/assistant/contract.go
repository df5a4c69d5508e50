package assistant

import (
	"context"

	"github.com/kailas-cloud/shopassist/internal/domain/retrieval"
	"github.com/kailas-cloud/shopassist/internal/usecase/intent"
)

// Classifier picks a canned rule for conversational input.
type Classifier interface {
	Match(text string) (intent.Rule, bool)
}

// Retriever ranks catalog products for a query. It never fails; degraded
// searches come back as empty results with a failure outcome.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) retrieval.Result
}

// Synthesizer renders a reply text from a retrieval result.
type Synthesizer interface {
	Synthesize(res retrieval.Result) string
}
