package summarize

import (
	"context"
	"regexp"
	"strings"
)

const (
	// maxSummaryChars bounds the heuristic summary length
	maxSummaryChars = 300
	// ellipsis replaces the tail of an over-long heuristic summary
	ellipsis = "..."
	// minSentenceWords is the shortest sentence worth keeping
	minSentenceWords = 5
	// maxSentences is the number of sentences kept
	maxSentences = 2
)

// sentenceEnd matches terminal punctuation followed by whitespace
var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// Heuristic picks the first substantive sentences of the text
type Heuristic struct{}

// Name returns the strategy name
func (Heuristic) Name() string {
	return "heuristic"
}

// Summarize joins the first two sentences of at least five words, bounded to 300 characters
func (Heuristic) Summarize(_ context.Context, text string) (string, error) {
	var picked []string

	for _, sentence := range Sentences(text) {
		if len(strings.Fields(sentence)) < minSentenceWords {
			continue
		}

		picked = append(picked, sentence)
		if len(picked) == maxSentences {
			break
		}
	}

	if len(picked) == 0 {
		return "", ErrNoSentences
	}

	summary := []rune(strings.Join(picked, " "))
	if len(summary) > maxSummaryChars {
		return string(summary[:maxSummaryChars-len(ellipsis)]) + ellipsis, nil
	}

	return string(summary), nil
}

// Sentences splits text after each terminal punctuation mark that is followed
// by whitespace, keeping the punctuation with its sentence
func Sentences(text string) []string {
	var (
		out   []string
		start int
	)

	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start : loc[0]+1]); s != "" {
			out = append(out, s)
		}

		start = loc[1]
	}

	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}

	return out
}
