package summarize

import "errors"

var (
	// ErrNoSentences is returned when the text has no sentence long enough to summarize
	ErrNoSentences = errors.New("no qualifying sentences")
	// ErrNilClient is returned when a strategy is built without a backing client
	ErrNilClient = errors.New("summarization client is nil")
)
