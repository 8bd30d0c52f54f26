package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/theopenlane/httpsling"

	"github.com/theopenlane/echoaudit/internal/types"
)

// defaultFetchTimeout bounds a single page download
const defaultFetchTimeout = 20 * time.Second

// Fetcher downloads the raw page and extracts text from the served markup
type Fetcher struct {
	httpClient *http.Client
}

// FetchOption configures the Fetcher
type FetchOption func(*Fetcher)

// WithFetchHTTPClient sets a custom HTTP client
func WithFetchHTTPClient(client *http.Client) FetchOption {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// NewFetcher returns a Fetcher with a bounded default client
func NewFetcher(opts ...FetchOption) *Fetcher {
	f := &Fetcher{httpClient: &http.Client{Timeout: defaultFetchTimeout}}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Extract downloads page.URL and cleans the response body
func (f *Fetcher) Extract(ctx context.Context, page types.PageHandle) (string, error) {
	if page.URL == "" {
		return "", ErrNoURL
	}

	requester := httpsling.MustNew(
		httpsling.URL(page.URL),
		httpsling.Method(http.MethodGet),
		httpsling.WithHTTPClient(f.httpClient),
	)

	var buf bytes.Buffer

	resp, _, err := requester.ReceiveTo(ctx, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		return Normalize(buf.String()), nil
	}

	return FromHTML(&buf)
}
