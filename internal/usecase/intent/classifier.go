// Package intent separates conversational chitchat from product queries.
package intent

// Classifier evaluates an ordered rule table; the first matching rule wins.
type Classifier struct {
	rules []Rule
}

// New creates a classifier over rules. The slice is copied.
func New(rules []Rule) *Classifier {
	rs := make([]Rule, len(rules))
	copy(rs, rules)
	return &Classifier{rules: rs}
}

// NewDefault creates a classifier with DefaultRules.
func NewDefault() *Classifier {
	return New(DefaultRules())
}

// Match returns the first rule that fires for text.
func (c *Classifier) Match(text string) (Rule, bool) {
	in := Normalize(text)
	for _, r := range c.rules {
		if r.Match != nil && r.Match(in) {
			return r, true
		}
	}
	return Rule{}, false
}

// Classify returns the canned reply for text, or ok=false when text should go to product search.
func (c *Classifier) Classify(text string) (string, bool) {
	r, ok := c.Match(text)
	if !ok {
		return "", false
	}
	return r.Reply, true
}

// Rules returns a copy of the rule table.
func (c *Classifier) Rules() []Rule {
	rs := make([]Rule, len(c.rules))
	copy(rs, c.rules)
	return rs
}
