package domain

import (
	"context"
	"time"
)

// PlaceholderTopic is assigned to text when the topic model holds no topics yet.
// It never counts as a topic match when ranking.
const PlaceholderTopic = "general"

// Document represents a single ingested file.
type Document struct {
	ID      string
	Path    string
	Content string
}

// ContextEntry is a relevant statement together with its surrounding sentences.
type ContextEntry struct {
	Sentence string
	Context  []string
	DocID    string
	Topics   []string
}

// ScoredResponse is a ranked statement returned for a query.
type ScoredResponse struct {
	Statement string   `json:"statement"`
	Score     int      `json:"score"`
	Source    string   `json:"source"`
	Context   []string `json:"context"`
	Topics    []string `json:"topics"`
}

// Analysis summarizes what a single Analyze call did.
type Analysis struct {
	DocID     string
	Sentences int
	Relevant  int
	Topics    []string
}

// Stats is a point-in-time view of the analyzer state.
type Stats struct {
	Documents int
	Entries   int
	Topics    int
	LastRefit time.Time
}

// Segmenter splits raw text into ordered sentences.
type Segmenter interface {
	Split(text string) []string
}

// RelevanceFilter decides whether a sentence is worth indexing.
type RelevanceFilter interface {
	IsRelevant(sentence string) bool
}

// TopicModel maintains the global topic set and assigns topics to text.
// Implementations must be safe for concurrent use; Fit may change the
// topics returned by later Extract calls.
type TopicModel interface {
	Name() string
	Fit(corpus []string) error
	Extract(text string) []string
	Topics() []string
	Reset()
}

// ContextIndex stores context entries keyed by sentence text.
type ContextIndex interface {
	Record(entry ContextEntry)
	All() []ContextEntry
	Len() int
	Reset()
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// PolicyService defines the operations exposed by the application core.
type PolicyService interface {
	Analyze(ctx context.Context, doc Document) (Analysis, error)
	Query(ctx context.Context, query string, maxResponses int) ([]ScoredResponse, error)
	Topics() []string
	Documents() []Document
	Refit(ctx context.Context) error
}
