package summarize

import (
	"context"

	"github.com/theopenlane/echoaudit/internal/openai"
)

// PolicySummarizer is implemented by language model clients
type PolicySummarizer interface {
	SummarizePolicy(ctx context.Context, text string) (string, error)
}

// OpenAI summarizes with a chat completions model
type OpenAI struct {
	client PolicySummarizer
}

// NewOpenAI wraps a model client as a strategy
func NewOpenAI(client PolicySummarizer) (*OpenAI, error) {
	if client == nil {
		return nil, ErrNilClient
	}

	return &OpenAI{client: client}, nil
}

// NewOpenAIFromKey builds the strategy from an API key; an empty key disables it
func NewOpenAIFromKey(apiKey string, opts ...openai.Option) (*OpenAI, error) {
	client, err := openai.New(apiKey, opts...)
	if err != nil {
		return nil, err
	}

	return NewOpenAI(client)
}

// Name returns the strategy name
func (*OpenAI) Name() string {
	return "openai"
}

// Summarize delegates to the model client
func (o *OpenAI) Summarize(ctx context.Context, text string) (string, error) {
	return o.client.SummarizePolicy(ctx, text)
}
