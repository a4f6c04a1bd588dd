package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyrag/internal/segmenter"
)

func TestFrequencySummarizer_PicksFrequentSentences(t *testing.T) {
	s := NewFrequencySummarizer(segmenter.NewSentenceSegmenter())
	text := "Governance policy matters. Cats purr loudly. Governance policy needs oversight. Governance policy is ongoing."

	got, err := s.Summarize(text, 2)
	require.NoError(t, err)
	assert.NotContains(t, got, "Cats purr")
	assert.Contains(t, got, "Governance policy matters.")
}

func TestFrequencySummarizer_KeepsOriginalOrder(t *testing.T) {
	s := NewFrequencySummarizer(segmenter.NewSentenceSegmenter())
	text := "Alpha beta. Gamma delta. Alpha beta gamma."

	got, err := s.Summarize(text, 3)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestFrequencySummarizer_EmptyAndDefaults(t *testing.T) {
	s := NewFrequencySummarizer(segmenter.NewSentenceSegmenter())

	got, err := s.Summarize("   ", 3)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Summarize("One. Two. Three. Four. Five. Six. Seven.", 0)
	require.NoError(t, err)
	assert.Len(t, segmenter.NewSentenceSegmenter().Split(got), 5)
}
