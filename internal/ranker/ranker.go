// Package ranker scores context entries against a query.
//
// An entry scores two points per topic shared with the query plus one point per
// whitespace-separated, lower-cased word shared with the query. Punctuation is
// not stripped, so "governance." and "governance" are different words.
package ranker

import (
	"sort"
	"strings"

	"policyrag/internal/domain"
)

// TopicWeight is the score contributed by each shared topic.
const TopicWeight = 2

// Words returns the set of lower-cased whitespace-separated words of s.
func Words(s string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// Score computes the score of entry for a query with the given topic and word sets.
// The placeholder topic never counts as shared.
func Score(queryTopics []string, queryWords map[string]struct{}, entry domain.ContextEntry) int {
	shared := 0
	seen := make(map[string]struct{}, len(queryTopics))
	for _, t := range queryTopics {
		if t == domain.PlaceholderTopic {
			continue
		}
		seen[t] = struct{}{}
	}
	for _, t := range entry.Topics {
		if _, ok := seen[t]; ok {
			shared++
			delete(seen, t)
		}
	}
	overlap := 0
	for w := range Words(entry.Sentence) {
		if _, ok := queryWords[w]; ok {
			overlap++
		}
	}
	return TopicWeight*shared + overlap
}

// Rank scores entries against query and returns at most k responses with a
// positive score, highest first. Entries with equal scores keep their input order.
func Rank(query string, queryTopics []string, entries []domain.ContextEntry, k int) []domain.ScoredResponse {
	out := []domain.ScoredResponse{}
	if k <= 0 {
		return out
	}
	qw := Words(query)
	for _, e := range entries {
		score := Score(queryTopics, qw, e)
		if score == 0 {
			continue
		}
		out = append(out, domain.ScoredResponse{
			Statement: e.Sentence,
			Score:     score,
			Source:    e.DocID,
			Context:   e.Context,
			Topics:    e.Topics,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > k {
		out = out[:k]
	}
	return out
}
