package cloudflare

import (
	"fmt"
	"net/http"
	"time"
)

const (
	// defaultBaseURL is the root endpoint for the Cloudflare API
	defaultBaseURL = "https://api.cloudflare.com/client/v4"
	// defaultRequestTimeout bounds a rendering request; it must exceed the
	// in-browser navigation timeout below
	defaultRequestTimeout = 60 * time.Second
	// browserNavigationTimeout is how long the remote browser waits for the
	// page to settle, in milliseconds
	browserNavigationTimeout = 45000
	// waitUntilNetworkIdle waits until at most two connections are open
	waitUntilNetworkIdle = "networkidle2"
)

// Client talks to the Cloudflare Browser Rendering API
type Client struct {
	accountID  string
	apiToken   string
	httpClient *http.Client
	baseURL    string
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

// New creates a client for the given account; both the account ID and the API token are required
func New(accountID, apiToken string, opts ...Option) (*Client, error) {
	switch {
	case accountID == "":
		return nil, ErrMissingAccountID
	case apiToken == "":
		return nil, ErrMissingAPIToken
	}

	client := &Client{
		accountID:  accountID,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		baseURL:    defaultBaseURL,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// apiURL builds the account scoped URL for path
func (c *Client) apiURL(path string) string {
	return fmt.Sprintf("%s/accounts/%s/%s", c.baseURL, c.accountID, path)
}

// gotoOptions controls remote browser navigation
type gotoOptions struct {
	WaitUntil string `json:"waitUntil,omitempty"`
	Timeout   int    `json:"timeout,omitempty"`
}

// renderRequest is the body shared by the rendering endpoints
type renderRequest struct {
	URL                  string       `json:"url"`
	GotoOptions          *gotoOptions `json:"gotoOptions,omitempty"`
	RejectResourceTypes  []string     `json:"rejectResourceTypes,omitempty"`
	VisibleLinksOnly     bool         `json:"visibleLinksOnly,omitempty"`
	ExcludeExternalLinks bool         `json:"excludeExternalLinks,omitempty"`
}

// newRenderRequest returns a request that waits for the page to settle
func newRenderRequest(pageURL string) renderRequest {
	return renderRequest{
		URL:         pageURL,
		GotoOptions: &gotoOptions{WaitUntil: waitUntilNetworkIdle, Timeout: browserNavigationTimeout},
	}
}
