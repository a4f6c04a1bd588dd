package topic

import (
	"sort"

	"policyrag/internal/domain"
	"policyrag/internal/vectorizer/tfidf"
)

// Taxonomy maps a topic name to its trigger keywords.
type Taxonomy map[string][]string

// DefaultTaxonomy is the hand-authored fallback taxonomy.
var DefaultTaxonomy = Taxonomy{
	"regulation":     {"regulation", "law", "compliance", "rules"},
	"safety":         {"safety", "security", "protection", "risk"},
	"ethics":         {"ethics", "ethical", "responsibility", "principles"},
	"development":    {"development", "research", "innovation"},
	"governance":     {"governance", "oversight", "control"},
	"implementation": {"implementation", "deployment", "adoption"},
}

// Names returns the sorted topic names of t.
func (t Taxonomy) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ domain.TopicModel = (*Static)(nil)

// Static assigns topics from a fixed taxonomy. It is stateless and Fit is a no-op.
type Static struct {
	names    []string
	keywords map[string]map[string]struct{}
}

// NewStatic builds a static model over taxonomy, or DefaultTaxonomy when nil.
func NewStatic(taxonomy Taxonomy) *Static {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy
	}
	s := &Static{names: taxonomy.Names(), keywords: make(map[string]map[string]struct{}, len(taxonomy))}
	for name, words := range taxonomy {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[w] = struct{}{}
		}
		s.keywords[name] = set
	}
	return s
}

func (s *Static) Name() string { return "static" }

func (s *Static) Fit([]string) error { return nil }

func (s *Static) Reset() {}

// Extract returns every topic with a keyword in the lower-cased word set of text.
func (s *Static) Extract(text string) []string {
	words := wordSet(text)
	var out []string
	for _, name := range s.names {
		for kw := range s.keywords[name] {
			if _, ok := words[kw]; ok {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

func (s *Static) Topics() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func wordSet(text string) map[string]struct{} {
	tokens := tfidf.Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
