// Package reply defines the assistant answer shared by every front-end.
package reply

import "github.com/kailas-cloud/shopassist/internal/domain/retrieval"

// Source tells which path produced a reply.
type Source string

// Reply sources.
const (
	// SourceCanned is a fixed conversational answer; no catalog search ran.
	SourceCanned Source = "canned"
	// SourceCatalog is a synthesized answer over retrieved products.
	SourceCatalog Source = "catalog"
)

// Reply is the assistant answer. Products is never nil.
type Reply struct {
	Text     string
	Products []retrieval.Hit
	Source   Source
	// Rule names the canned rule that fired (SourceCanned only).
	Rule string
	// Outcome is the retrieval outcome (SourceCatalog only).
	Outcome retrieval.Outcome
}

// Canned creates a reply for a conversational rule hit.
func Canned(rule, text string) Reply {
	return Reply{Text: text, Products: []retrieval.Hit{}, Source: SourceCanned, Rule: rule}
}

// FromCatalog creates a reply from synthesized text and a retrieval result.
func FromCatalog(text string, res retrieval.Result) Reply {
	hits := res.Hits()
	if hits == nil {
		hits = []retrieval.Hit{}
	}
	return Reply{Text: text, Products: hits, Source: SourceCatalog, Outcome: res.Outcome()}
}
