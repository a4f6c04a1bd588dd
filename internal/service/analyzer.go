package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"policyrag/internal/domain"
	"policyrag/internal/logger"
	"policyrag/internal/ranker"
	"policyrag/internal/segmenter"
)

// Options tunes the analyzer.
type Options struct {
	// RefitEvery refits the topic model after this many analyzed documents.
	// Zero means 1. A negative value refits only on explicit Refit calls and
	// until the first successful fit.
	RefitEvery int
	// ContextRadius is the number of neighbours kept on each side of a
	// statement. Zero means 2.
	ContextRadius int
}

var _ domain.PolicyService = (*Analyzer)(nil)

// Analyzer owns the corpus and the context index. Writers (Analyze, Refit,
// Reset) are serialized; readers see the last published state.
type Analyzer struct {
	segmenter domain.Segmenter
	filter    domain.RelevanceFilter
	model     domain.TopicModel
	index     domain.ContextIndex
	opts      Options
	log       *logger.Logger

	writeMu sync.Mutex

	mu         sync.RWMutex
	corpus     []string
	docs       []domain.Document
	sinceRefit int
	fitted     bool
	lastRefit  time.Time
}

func NewAnalyzer(seg domain.Segmenter, filter domain.RelevanceFilter, model domain.TopicModel, index domain.ContextIndex, opts Options) *Analyzer {
	if opts.RefitEvery == 0 {
		opts.RefitEvery = 1
	}
	if opts.ContextRadius <= 0 {
		opts.ContextRadius = 2
	}
	return &Analyzer{
		segmenter: seg,
		filter:    filter,
		model:     model,
		index:     index,
		opts:      opts,
		log:       logger.Named("analyzer"),
	}
}

// Analyze adds doc to the corpus, refits topics when due and indexes every
// relevant sentence with its context window.
func (a *Analyzer) Analyze(ctx context.Context, doc domain.Document) (domain.Analysis, error) {
	res := domain.Analysis{DocID: doc.ID, Topics: []string{}}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	sentences := a.segmenter.Split(doc.Content)
	if len(sentences) == 0 {
		return res, nil
	}
	res.Sentences = len(sentences)

	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	a.corpus = append(a.corpus, doc.Content)
	a.docs = append(a.docs, doc)
	a.sinceRefit++
	due := !a.fitted || (a.opts.RefitEvery > 0 && a.sinceRefit >= a.opts.RefitEvery)
	corpus := a.corpus
	a.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if due {
		// fit failures leave the fallback topics in place
		_ = a.refit(corpus)
	}

	var entries []domain.ContextEntry
	topics := make(map[string]struct{})
	for i, s := range sentences {
		if !a.filter.IsRelevant(s) {
			continue
		}
		entry := domain.ContextEntry{
			Sentence: s,
			Context:  segmenter.Window(sentences, i, a.opts.ContextRadius),
			DocID:    doc.ID,
			Topics:   a.model.Extract(s),
		}
		for _, t := range entry.Topics {
			topics[t] = struct{}{}
		}
		entries = append(entries, entry)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	a.mu.Lock()
	for _, e := range entries {
		a.index.Record(e)
	}
	a.mu.Unlock()

	res.Relevant = len(entries)
	for t := range topics {
		res.Topics = append(res.Topics, t)
	}
	sort.Strings(res.Topics)
	a.log.Info().
		Str("doc_id", doc.ID).
		Int("sentences", res.Sentences).
		Int("relevant", res.Relevant).
		Msg("document analyzed")
	return res, nil
}

// Query ranks indexed statements against query.
func (a *Analyzer) Query(ctx context.Context, query string, maxResponses int) ([]domain.ScoredResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if maxResponses <= 0 {
		return []domain.ScoredResponse{}, nil
	}
	a.mu.RLock()
	queryTopics := a.model.Extract(query)
	entries := a.index.All()
	a.mu.RUnlock()
	return ranker.Rank(query, queryTopics, entries, maxResponses), nil
}

// Refit refits the topic model over the whole corpus now. The returned error
// reports a failed fit; the model has already switched to its fallback topics.
func (a *Analyzer) Refit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.RLock()
	corpus := a.corpus
	a.mu.RUnlock()
	return a.refit(corpus)
}

// refit runs with writeMu held. corpus is append-only, so the slice header
// taken under the read lock stays valid.
func (a *Analyzer) refit(corpus []string) error {
	start := time.Now()
	err := a.model.Fit(corpus)

	a.mu.Lock()
	a.sinceRefit = 0
	a.lastRefit = time.Now()
	if err == nil {
		a.fitted = true
	}
	a.mu.Unlock()

	if err != nil {
		a.log.Warn().Err(err).Str("model", a.model.Name()).Int("documents", len(corpus)).Msg("topic refit failed, using fallback topics")
		return err
	}
	a.log.Debug().
		Str("model", a.model.Name()).
		Int("documents", len(corpus)).
		Int("topics", len(a.model.Topics())).
		Dur("elapsed", time.Since(start)).
		Msg("topics refit")
	return nil
}

// Topics returns the current global topic set.
func (a *Analyzer) Topics() []string {
	return a.model.Topics()
}

// Documents returns the analyzed documents in ingestion order.
func (a *Analyzer) Documents() []domain.Document {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.Document, len(a.docs))
	copy(out, a.docs)
	return out
}

// Reset drops the corpus, the index and the topic set.
func (a *Analyzer) Reset() {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.corpus = nil
	a.docs = nil
	a.sinceRefit = 0
	a.fitted = false
	a.lastRefit = time.Time{}
	a.index.Reset()
	a.model.Reset()
}

func (a *Analyzer) Stats() domain.Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return domain.Stats{
		Documents: len(a.docs),
		Entries:   a.index.Len(),
		Topics:    len(a.model.Topics()),
		LastRefit: a.lastRefit,
	}
}
