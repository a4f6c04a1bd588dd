package segmenter

import (
	"regexp"
	"strings"
)

// SentenceSegmenter splits text into sentences on terminal punctuation and blank lines.
type SentenceSegmenter struct {
	paragraph *regexp.Regexp
	splitter  *regexp.Regexp
}

func NewSentenceSegmenter() *SentenceSegmenter {
	return &SentenceSegmenter{
		paragraph: regexp.MustCompile(`\n[ \t\r]*\n`),
		// terminal punctuation only ends a sentence when followed by whitespace or end of
		// text, so "3.5" and "e.g.foo" stay intact
		splitter: regexp.MustCompile(`(?s)\S.*?(?:[.!?]+["')\]]*(?:\s+|\z)|\z)`),
	}
}

// abbreviations never end a sentence, matched lower-cased with their final period.
var abbreviations = map[string]struct{}{
	"e.g.": {}, "i.e.": {}, "etc.": {}, "vs.": {}, "cf.": {}, "al.": {},
	"mr.": {}, "mrs.": {}, "ms.": {}, "dr.": {}, "prof.": {},
}

// Split returns the sentences of text in order. Empty text yields no sentences.
func (s *SentenceSegmenter) Split(text string) []string {
	var sentences []string
	for _, para := range s.paragraph.Split(text, -1) {
		var pending string
		for _, raw := range s.splitter.FindAllString(para, -1) {
			// collapse hard-wrapped lines
			sentence := strings.Join(strings.Fields(raw), " ")
			if sentence == "" {
				continue
			}
			if pending != "" {
				sentence = pending + " " + sentence
				pending = ""
			}
			if endsWithAbbreviation(sentence) {
				pending = sentence
				continue
			}
			sentences = append(sentences, sentence)
		}
		if pending != "" {
			sentences = append(sentences, pending)
		}
	}
	return sentences
}

func endsWithAbbreviation(sentence string) bool {
	last := sentence[strings.LastIndexByte(sentence, ' ')+1:]
	last = strings.TrimLeft(strings.ToLower(last), `"'([`)
	_, ok := abbreviations[last]
	return ok
}

// Window returns the sentences within radius positions of index i, inclusive of i.
// The result is a fresh slice and never aliases sentences.
func Window(sentences []string, i, radius int) []string {
	if i < 0 || i >= len(sentences) {
		return nil
	}
	if radius < 0 {
		radius = 0
	}
	start := i - radius
	if start < 0 {
		start = 0
	}
	end := i + radius + 1
	if end > len(sentences) {
		end = len(sentences)
	}
	out := make([]string, end-start)
	copy(out, sentences[start:end])
	return out
}
