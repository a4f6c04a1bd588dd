package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	ErrEmptyCorpus     = errors.New("tfidf: empty corpus")
	ErrEmptyVocabulary = errors.New("tfidf: no terms left after tokenization and stop word removal")
	ErrNotFitted       = errors.New("tfidf: vectorizer not fitted")
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Options controls vocabulary construction.
type Options struct {
	// MaxFeatures keeps only the most frequent terms across the corpus; 0 keeps all.
	MaxFeatures int
	// NGramMax is the largest n-gram size; terms are built from 1..NGramMax tokens.
	NGramMax int
}

// Vectorizer builds a vocabulary of unigrams and n-grams from a corpus and
// computes smoothed IDF weights. Vectors are L2-normalized.
type Vectorizer struct {
	opts       Options
	vocabulary map[string]int
	terms      []string
	idf        []float64
	prepared   bool
}

// New creates an unfitted vectorizer. Zero options mean unigrams+bigrams and no feature cap.
func New(opts Options) *Vectorizer {
	if opts.NGramMax <= 0 {
		opts.NGramMax = 2
	}
	if opts.MaxFeatures < 0 {
		opts.MaxFeatures = 0
	}
	return &Vectorizer{opts: opts, vocabulary: make(map[string]int)}
}

// Fit builds the vocabulary and IDF values from corpus, replacing any previous fit.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}
	df := make(map[string]int)
	counts := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range v.analyze(text) {
			counts[term]++
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	if len(df) == 0 {
		return ErrEmptyVocabulary
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if v.opts.MaxFeatures > 0 && len(terms) > v.opts.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if counts[terms[i]] != counts[terms[j]] {
				return counts[terms[i]] > counts[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.opts.MaxFeatures]
	}
	// Create stable ordering for vocabulary
	sort.Strings(terms)

	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	N := float64(len(corpus))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF
		v.idf[i] = math.Log((1+N)/(1+float64(df[term]))) + 1.0
	}
	v.terms = terms
	v.prepared = true
	return nil
}

// FitTransform fits on corpus and returns one vector per document.
func (v *Vectorizer) FitTransform(corpus []string) ([][]float64, error) {
	if err := v.Fit(corpus); err != nil {
		return nil, err
	}
	out := make([][]float64, len(corpus))
	for i, text := range corpus {
		vec, err := v.Transform(text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimension returns the vocabulary size.
func (v *Vectorizer) Dimension() int { return len(v.terms) }

// Terms returns the vocabulary in vector index order.
func (v *Vectorizer) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Transform computes the TF-IDF vector of text against the fitted vocabulary.
func (v *Vectorizer) Transform(text string) ([]float64, error) {
	if !v.prepared {
		return nil, ErrNotFitted
	}
	vec := make([]float64, len(v.terms))
	tf := make(map[int]int)
	total := 0
	for _, term := range v.analyze(text) {
		if idx, ok := v.vocabulary[term]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		tfv := float64(count) / float64(total)
		vec[idx] = tfv * v.idf[idx]
	}
	// L2 normalize
	norm := 0.0
	for _, x := range vec {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// analyze returns the unigram and n-gram terms of text; n-grams are built after
// stop words are removed.
func (v *Vectorizer) analyze(text string) []string {
	var tokens []string
	for _, tok := range Tokenize(text) {
		if !IsStopWord(tok) {
			tokens = append(tokens, tok)
		}
	}
	terms := make([]string, 0, len(tokens)*v.opts.NGramMax)
	terms = append(terms, tokens...)
	for n := 2; n <= v.opts.NGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// Tokenize lower-cases text and returns its word tokens of two or more characters.
// Stop words are kept.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// IsStopWord reports whether a lower-cased token is an English stop word.
func IsStopWord(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "also", "am", "an", "and", "any", "are", "as", "at",
		"be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
		"can", "could", "did", "do", "does", "doing", "don", "down", "during",
		"each", "else", "few", "for", "from", "further", "had", "has", "have", "having", "he", "her", "here", "hers",
		"him", "his", "how", "if", "in", "into", "is", "it", "its", "itself", "just",
		"me", "more", "most", "must", "my", "no", "nor", "not", "now", "of", "off", "on", "once", "only", "or",
		"other", "our", "ours", "out", "over", "own", "same", "she", "should", "so", "some", "such",
		"than", "that", "the", "their", "them", "then", "there", "these", "they", "this", "those", "through",
		"to", "too", "under", "until", "up", "us", "very", "was", "we", "were", "what", "when", "where", "which",
		"while", "who", "whom", "why", "will", "with", "would", "you", "your",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
