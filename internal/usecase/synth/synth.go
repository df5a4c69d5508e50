// Package synth turns retrieval results into a spoken-style reply.
package synth

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/shopassist/internal/domain/retrieval"
)

// NothingFound is returned for an empty result.
const NothingFound = "I couldn't find any jewelry matching that description. Could you try being more specific? " +
	"Maybe mention a material (gold, silver) or occasion (wedding, party)?"

// DefaultCurrency is the spoken currency unit.
const DefaultCurrency = "rupees"

// OccasionClause is appended when the top product name contains one of Keywords.
type OccasionClause struct {
	Keywords []string
	Clause   string
}

// DefaultOccasions is the occasion lexicon in priority order.
func DefaultOccasions() []OccasionClause {
	return []OccasionClause{
		{Keywords: []string{"Wedding", "Engagement"}, Clause: " It would be a perfect choice for a special celebration."},
		{Keywords: []string{"Party"}, Clause: " It will definitely make you stand out at any event."},
		{Keywords: []string{"Office", "Work"}, Clause: " It has a subtle elegance suitable for daily wear."},
	}
}

// Synthesizer fills fixed templates from a result. Output depends only on its input.
type Synthesizer struct {
	currency  string
	occasions []OccasionClause
}

// New creates a synthesizer with the default lexicon. Empty currency uses DefaultCurrency.
func New(currency string) *Synthesizer {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Synthesizer{currency: currency, occasions: DefaultOccasions()}
}

// WithOccasions replaces the occasion lexicon.
func (s *Synthesizer) WithOccasions(o []OccasionClause) *Synthesizer {
	s.occasions = o
	return s
}

// Synthesize renders the reply for res. Never returns an empty string.
func (s *Synthesizer) Synthesize(res retrieval.Result) string {
	hits := res.Hits()
	if len(hits) == 0 {
		return NothingFound
	}

	top := hits[0].Product()
	name := top.Name()
	material := top.Material()
	price := wholeNumber(top.Price())
	clause := s.occasionClause(name)

	if len(hits) == 1 {
		return fmt.Sprintf("I found the %s. It is crafted from %s and costs %s %s.%s Would you like to add it to your cart?",
			name, material, price, s.currency, clause)
	}

	lo, hi := priceRange(hits)
	var b strings.Builder
	fmt.Fprintf(&b, "I found the %s, which is made of %s and priced at %s %s.", name, material, price, s.currency)
	b.WriteString(clause)
	fmt.Fprintf(&b, " I also found %d other options, ranging from %s to %s %s.",
		len(hits)-1, wholeNumber(lo), wholeNumber(hi), s.currency)
	b.WriteString(" You can see them all on your screen.")
	return b.String()
}

func (s *Synthesizer) occasionClause(name string) string {
	for _, o := range s.occasions {
		for _, kw := range o.Keywords {
			if strings.Contains(name, kw) {
				return o.Clause
			}
		}
	}
	return ""
}

// priceRange covers every hit, the anchor included.
func priceRange(hits []retrieval.Hit) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := range hits {
		p := hits[i].Product()
		lo = math.Min(lo, p.Price())
		hi = math.Max(hi, p.Price())
	}
	return lo, hi
}

// wholeNumber truncates toward zero, matching integer conversion of the price.
func wholeNumber(v float64) string {
	return strconv.FormatInt(int64(v), 10)
}
