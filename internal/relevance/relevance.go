// Package relevance decides which sentences carry policy statements.
package relevance

import "strings"

// DefaultTerms is the keyword set a sentence must mention to be indexed.
var DefaultTerms = []string{
	"policy", "strategy", "initiative", "regulation", "law",
	"governance", "framework", "approach", "position", "stance",
	"development", "implementation", "ai", "artificial intelligence",
	"declare", "announce", "establish", "create", "propose",
}

// Filter matches sentences by case-insensitive substring search over a fixed term set.
// Matching is not word-bounded: "policymaking" matches "policy".
type Filter struct {
	terms []string
}

// NewFilter builds a filter over terms, or DefaultTerms when none are given.
func NewFilter(terms ...string) *Filter {
	if len(terms) == 0 {
		terms = DefaultTerms
	}
	f := &Filter{terms: make([]string, 0, len(terms))}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			f.terms = append(f.terms, t)
		}
	}
	return f
}

func (f *Filter) IsRelevant(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, t := range f.terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// Terms returns a copy of the configured terms.
func (f *Filter) Terms() []string {
	out := make([]string, len(f.terms))
	copy(out, f.terms)
	return out
}
