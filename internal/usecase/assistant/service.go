// Package assistant answers free-text shopper input: chitchat gets a canned
// reply, everything else goes through catalog retrieval and synthesis.
package assistant

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/domain/reply"
	"github.com/kailas-cloud/shopassist/internal/logger"
	"github.com/kailas-cloud/shopassist/internal/metrics"
)

// DefaultTopK is the number of products a reply covers.
const DefaultTopK = 4

// Service is the query orchestrator shared by every front-end.
type Service struct {
	classifier  Classifier
	retriever   Retriever
	synthesizer Synthesizer
	topK        int
	logger      *zap.Logger
}

// New creates an orchestrator. logger is the fallback when the request
// context carries none.
func New(c Classifier, r Retriever, s Synthesizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{classifier: c, retriever: r, synthesizer: s, topK: DefaultTopK, logger: logger}
}

// WithTopK overrides how many products a reply covers.
func (s *Service) WithTopK(k int) *Service {
	if k > 0 {
		s.topK = k
	}
	return s
}

// Respond maps any input text to a reply. It never fails.
func (s *Service) Respond(ctx context.Context, text string) reply.Reply {
	log := logger.FromContextOr(ctx, s.logger)

	if rule, ok := s.classifier.Match(text); ok {
		metrics.CannedRepliesTotal.WithLabelValues(rule.Name).Inc()
		metrics.RepliesTotal.WithLabelValues(string(reply.SourceCanned), "").Inc()
		log.Debug("assistant_reply",
			zap.String("source", string(reply.SourceCanned)),
			zap.String("rule", rule.Name),
		)
		return reply.Canned(rule.Name, rule.Reply)
	}

	res := s.retriever.Search(ctx, text, s.topK)
	if res.Outcome().IsFailure() {
		log.Warn("Catalog search degraded",
			zap.String("outcome", string(res.Outcome())),
			zap.Error(res.Cause()),
		)
	}

	out := reply.FromCatalog(s.synthesizer.Synthesize(res), res)

	metrics.RetrievalHits.Observe(float64(res.Len()))
	metrics.RepliesTotal.WithLabelValues(string(reply.SourceCatalog), string(res.Outcome())).Inc()
	log.Debug("assistant_reply",
		zap.String("source", string(reply.SourceCatalog)),
		zap.String("outcome", string(res.Outcome())),
		zap.Int("hits", res.Len()),
	)
	return out
}
