package segmenter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentenceSegmenter_Split(t *testing.T) {
	s := NewSentenceSegmenter()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "empty",
			in:   "   \n\t ",
			want: nil,
		},
		{
			name: "three sentences",
			in:   "AI safety is critical. We need governance. The weather is nice.",
			want: []string{"AI safety is critical.", "We need governance.", "The weather is nice."},
		},
		{
			name: "trailing text without punctuation is kept",
			in:   "First one! Second one? and a tail",
			want: []string{"First one!", "Second one?", "and a tail"},
		},
		{
			name: "decimal numbers do not split",
			in:   "Funding rose 3.5 percent. Then it fell.",
			want: []string{"Funding rose 3.5 percent.", "Then it fell."},
		},
		{
			name: "punctuation runs and closing quotes",
			in:   `He said "stop!" Then left... Later?! Fine.`,
			want: []string{`He said "stop!"`, "Then left...", "Later?!", "Fine."},
		},
		{
			name: "abbreviations do not split",
			in:   "Rules apply to vendors, e.g. the cloud providers. Mr. Smith proposed a law. Done.",
			want: []string{"Rules apply to vendors, e.g. the cloud providers.", "Mr. Smith proposed a law.", "Done."},
		},
		{
			name: "abbreviation at the end of a paragraph",
			in:   "Sources include reports, studies, etc.\n\nNext part.",
			want: []string{"Sources include reports, studies, etc.", "Next part."},
		},
		{
			name: "wrapped lines are joined and blank lines split",
			in:   "A policy that\nspans lines.\n\nHEADERS:\nIntro",
			want: []string{"A policy that spans lines.", "HEADERS: Intro"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Split(tc.in))
		})
	}
}

func TestWindow_Bounds(t *testing.T) {
	for n := 1; n <= 8; n++ {
		sentences := make([]string, n)
		for i := range sentences {
			sentences[i] = fmt.Sprintf("s%d", i)
		}
		for i := 0; i < n; i++ {
			t.Run(fmt.Sprintf("n=%d/i=%d", n, i), func(t *testing.T) {
				start := max(0, i-2)
				end := min(n, i+3)
				assert.Equal(t, sentences[start:end], Window(sentences, i, 2))
			})
		}
	}
}

func TestWindow_DoesNotAlias(t *testing.T) {
	sentences := []string{"a", "b", "c"}
	w := Window(sentences, 1, 2)
	require.Len(t, w, 3)
	w[0] = "changed"
	assert.Equal(t, "a", sentences[0])
}

func TestWindow_OutOfRange(t *testing.T) {
	assert.Nil(t, Window([]string{"a"}, 3, 2))
	assert.Nil(t, Window(nil, 0, 2))
	assert.Equal(t, []string{"b"}, Window([]string{"a", "b", "c"}, 1, -1))
}
