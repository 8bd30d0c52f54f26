package summarize

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// NoTextMessage is returned when there is no policy text to summarize
	NoTextMessage = "No policy text available."
	// InsufficientTextMessage is returned when no strategy could produce a summary
	InsufficientTextMessage = "The policy text provided is too short or lacks structured sentences for analysis."

	// SourceNone marks summaries that were not produced by a strategy
	SourceNone = "none"
)

// Strategy produces a summary of policy text or an error when it cannot
type Strategy interface {
	// Name identifies the strategy in reports and metrics
	Name() string
	// Summarize returns a non-empty summary or an error
	Summarize(ctx context.Context, text string) (string, error)
}

// Summary is the outcome of summarization
type Summary struct {
	// Text is the human readable summary
	Text string `json:"text"`
	// Source is the name of the strategy that produced Text
	Source string `json:"source"`
}

// Summarizer tries its strategies in order and never fails
type Summarizer struct {
	strategies []Strategy
}

// New returns a summarizer that tries the given strategies in order and
// always ends with the heuristic strategy
func New(strategies ...Strategy) *Summarizer {
	s := &Summarizer{}

	for _, strategy := range strategies {
		if strategy == nil {
			continue
		}

		if _, ok := strategy.(Heuristic); ok {
			continue
		}

		s.strategies = append(s.strategies, strategy)
	}

	s.strategies = append(s.strategies, Heuristic{})

	return s
}

// Strategies returns the names of the configured strategies in order
func (s *Summarizer) Strategies() []string {
	names := make([]string, 0, len(s.strategies))
	for _, strategy := range s.strategies {
		names = append(names, strategy.Name())
	}

	return names
}

// Summarize returns the first successful strategy result; empty input short
// circuits before any strategy runs
func (s *Summarizer) Summarize(ctx context.Context, text string) Summary {
	if strings.TrimSpace(text) == "" {
		return Summary{Text: NoTextMessage, Source: SourceNone}
	}

	for _, strategy := range s.strategies {
		out, err := strategy.Summarize(ctx, text)
		if err != nil {
			log.Debug().Err(err).Str("strategy", strategy.Name()).Msg("summarization strategy failed, falling through")
			continue
		}

		out = strings.TrimSpace(out)
		if out == "" {
			continue
		}

		return Summary{Text: out, Source: strategy.Name()}
	}

	return Summary{Text: InsufficientTextMessage, Source: SourceNone}
}
