package slack

import (
	"net/http"
	"time"

	"github.com/theopenlane/echoaudit/internal/types"
)

// defaultRequestTimeout is the default timeout for Slack webhook requests
const defaultRequestTimeout = 10 * time.Second

// Client posts audit notifications to a Slack incoming webhook
type Client struct {
	webhookURL  string
	httpClient  *http.Client
	minSeverity types.Severity
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

// WithMinSeverity suppresses completed audits below severity; failed audits are always sent
func WithMinSeverity(severity types.Severity) Option {
	return func(c *Client) {
		if severityRank(severity) >= 0 {
			c.minSeverity = severity
		}
	}
}

// New creates a Slack webhook client
func New(webhookURL string, opts ...Option) (*Client, error) {
	if webhookURL == "" {
		return nil, ErrMissingWebhookURL
	}

	client := &Client{
		webhookURL:  webhookURL,
		httpClient:  &http.Client{Timeout: defaultRequestTimeout},
		minSeverity: types.SeveritySafe,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// severityRank orders severities for threshold checks; unknown severities are -1
func severityRank(s types.Severity) int {
	switch s {
	case types.SeveritySafe:
		return 0
	case types.SeverityWarning:
		return 1
	case types.SeverityDanger:
		return 2
	case types.SeverityError:
		return 3
	default:
		return -1
	}
}
