package intent

import (
	"strings"
	"unicode"
)

// Input is normalized user text: lower-cased, trimmed, with tokens split on whitespace
// after removing '?', '!' and '.'.
type Input struct {
	Text   string
	Tokens []string
	// Words are Tokens with leading and trailing punctuation trimmed ("you," -> "you").
	// Tokens left empty by trimming are dropped.
	Words []string
	set   map[string]struct{}
}

// Normalize prepares raw text for rule evaluation.
func Normalize(raw string) Input {
	text := strings.ToLower(strings.TrimSpace(raw))
	stripped := strings.NewReplacer("?", "", "!", "", ".", "").Replace(text)
	tokens := strings.Fields(stripped)

	set := make(map[string]struct{}, len(tokens))
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
		if w := strings.TrimFunc(tok, notWordRune); w != "" {
			words = append(words, w)
		}
	}
	return Input{Text: text, Tokens: tokens, Words: words, set: set}
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// HasToken reports exact token membership.
func (in Input) HasToken(tok string) bool {
	_, ok := in.set[tok]
	return ok
}

// Predicate decides whether a rule fires for the input.
type Predicate func(in Input) bool

// Rule pairs a trigger with a fixed reply.
type Rule struct {
	Name  string
	Match Predicate
	Reply string
}

// AnyToken fires when any of the words appears as a whole token.
func AnyToken(words ...string) Predicate {
	return func(in Input) bool {
		for _, w := range words {
			if in.HasToken(w) {
				return true
			}
		}
		return false
	}
}

// Contains fires when any of the substrings appears in the normalized text.
func Contains(subs ...string) Predicate {
	return func(in Input) bool {
		for _, s := range subs {
			if strings.Contains(in.Text, s) {
				return true
			}
		}
		return false
	}
}

// GreetingStem fires for short tokens starting with stem, e.g. "hii" or "hiya".
func GreetingStem(stem string, maxLen int) Predicate {
	return func(in Input) bool {
		for _, tok := range in.Tokens {
			if strings.HasPrefix(tok, stem) && len(tok) <= maxLen {
				return true
			}
		}
		return false
	}
}

// AnyOf fires when at least one predicate fires.
func AnyOf(preds ...Predicate) Predicate {
	return func(in Input) bool {
		for _, p := range preds {
			if p(in) {
				return true
			}
		}
		return false
	}
}

// Phrase fires when any phrase appears as a contiguous run of whole words,
// so "what are you" does not fire on "what are your" but does on "what are you, bot".
func Phrase(phrases ...string) Predicate {
	seqs := make([][]string, 0, len(phrases))
	for _, p := range phrases {
		if f := Normalize(p).Words; len(f) > 0 {
			seqs = append(seqs, f)
		}
	}
	return func(in Input) bool {
		for _, seq := range seqs {
			if containsRun(in.Words, seq) {
				return true
			}
		}
		return false
	}
}

func containsRun(tokens, seq []string) bool {
	for i := 0; i+len(seq) <= len(tokens); i++ {
		match := true
		for j := range seq {
			if tokens[i+j] != seq[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
