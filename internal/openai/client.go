package openai

import (
	"net/http"
	"time"
)

const (
	// defaultBaseURL is the root endpoint for the OpenAI API
	defaultBaseURL = "https://api.openai.com/v1"
	// defaultModel is the chat model used for policy summaries
	defaultModel = "gpt-4o-mini"
	// defaultMaxTokens is enough for a 3-5 sentence summary
	defaultMaxTokens = 150
	// defaultTemperature keeps summaries mostly deterministic
	defaultTemperature = 0.5
	// defaultRequestTimeout is the default timeout for completion requests
	defaultRequestTimeout = 30 * time.Second
)

// Client calls the OpenAI chat completions API
type Client struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	baseURL     string
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base URL
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithModel overrides the chat model
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxTokens overrides the completion token limit
func WithMaxTokens(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithTemperature overrides the sampling temperature
func WithTemperature(t float64) Option {
	return func(c *Client) {
		if t >= 0 {
			c.temperature = t
		}
	}
}

// New creates a new OpenAI client with the provided API key
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := &Client{
		apiKey:      apiKey,
		model:       defaultModel,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
		httpClient:  &http.Client{Timeout: defaultRequestTimeout},
		baseURL:     defaultBaseURL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}
