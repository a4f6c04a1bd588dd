package topic

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"policyrag/internal/cluster/kmeans"
	"policyrag/internal/domain"
	"policyrag/internal/vectorizer/tfidf"
)

// ErrFit wraps every error that made a refit fall back to the taxonomy.
var ErrFit = errors.New("topic fit failed")

// ErrTooFewDocuments is returned when the corpus has fewer than two distinct documents.
var ErrTooFewDocuments = errors.New("need at least two distinct documents")

// DynamicOptions configures clustering-based topic extraction.
type DynamicOptions struct {
	Clusters    int
	TopTerms    int
	MaxFeatures int
	Seed        uint64
	// Fallback replaces the topic set when a fit fails. Nil means DefaultTaxonomy.
	Fallback Taxonomy
}

var _ domain.TopicModel = (*Dynamic)(nil)

// Dynamic derives topic labels by clustering TF-IDF document vectors. Each
// cluster contributes its highest-weighted centroid terms; the label set is
// replaced on every Fit. Dynamic is safe for concurrent use.
type Dynamic struct {
	opts DynamicOptions

	mu     sync.RWMutex
	labels []string
	words  map[string][]string
}

func NewDynamic(opts DynamicOptions) *Dynamic {
	if opts.Clusters <= 0 {
		opts.Clusters = 10
	}
	if opts.TopTerms <= 0 {
		opts.TopTerms = 5
	}
	if opts.MaxFeatures == 0 {
		opts.MaxFeatures = 1000
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	if opts.Fallback == nil {
		opts.Fallback = DefaultTaxonomy
	}
	return &Dynamic{opts: opts}
}

func (d *Dynamic) Name() string { return "dynamic" }

// Fit refits the vectorizer and clustering over corpus. On failure the label set
// becomes the fallback taxonomy names and the returned error wraps ErrFit.
func (d *Dynamic) Fit(corpus []string) error {
	labels, err := d.fit(corpus)
	if err != nil {
		labels = d.opts.Fallback.Names()
		err = fmt.Errorf("%w: %w", ErrFit, err)
	}
	d.set(labels)
	return err
}

func (d *Dynamic) fit(corpus []string) ([]string, error) {
	if distinctDocs(corpus) < 2 {
		return nil, ErrTooFewDocuments
	}
	vec := tfidf.New(tfidf.Options{MaxFeatures: d.opts.MaxFeatures, NGramMax: 2})
	matrix, err := vec.FitTransform(corpus)
	if err != nil {
		return nil, err
	}
	// duplicate documents collapse onto one vector
	k := min(d.opts.Clusters, kmeans.Distinct(matrix))
	res, err := kmeans.Fit(matrix, kmeans.Options{K: k, Seed: d.opts.Seed})
	if err != nil {
		return nil, err
	}

	terms := vec.Terms()
	set := make(map[string]struct{})
	for _, centroid := range res.Centroids {
		for _, idx := range topIndexes(centroid, d.opts.TopTerms) {
			set[terms[idx]] = struct{}{}
		}
	}
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	return labels, nil
}

func (d *Dynamic) set(labels []string) {
	sort.Strings(labels)
	words := make(map[string][]string, len(labels))
	for _, l := range labels {
		words[l] = strings.Fields(l)
	}
	d.mu.Lock()
	d.labels = labels
	d.words = words
	d.mu.Unlock()
}

// Extract returns every known label sharing at least one word with text, or the
// placeholder topic when no labels exist yet.
func (d *Dynamic) Extract(text string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.labels) == 0 {
		return []string{domain.PlaceholderTopic}
	}
	tokens := wordSet(text)
	var out []string
	for _, label := range d.labels {
		for _, w := range d.words[label] {
			if _, ok := tokens[w]; ok {
				out = append(out, label)
				break
			}
		}
	}
	return out
}

func (d *Dynamic) Topics() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.labels))
	copy(out, d.labels)
	return out
}

func (d *Dynamic) Reset() {
	d.mu.Lock()
	d.labels = nil
	d.words = nil
	d.mu.Unlock()
}

// topIndexes returns up to n indexes of the largest positive weights, heaviest first.
func topIndexes(weights []float64, n int) []int {
	idxs := make([]int, 0, len(weights))
	for i, w := range weights {
		if w > 0 {
			idxs = append(idxs, i)
		}
	}
	sort.SliceStable(idxs, func(a, b int) bool { return weights[idxs[a]] > weights[idxs[b]] })
	if len(idxs) > n {
		idxs = idxs[:n]
	}
	return idxs
}

func distinctDocs(corpus []string) int {
	seen := make(map[string]struct{}, len(corpus))
	for _, doc := range corpus {
		seen[strings.TrimSpace(doc)] = struct{}{}
	}
	return len(seen)
}
