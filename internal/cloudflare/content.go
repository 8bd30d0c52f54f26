package cloudflare

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/theopenlane/httpsling"
)

// contentPath is the API path for fully rendered page HTML
const contentPath = "browser-rendering/content"

// contentResponse is the Cloudflare envelope for the content endpoint
type contentResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
}

// RenderContent loads pageURL in a remote browser and returns the rendered HTML
func (c *Client) RenderContent(ctx context.Context, pageURL string) (string, error) {
	body := newRenderRequest(pageURL)
	// media never contributes text
	body.RejectResourceTypes = []string{"image", "media", "font"}

	requester := httpsling.MustNew(
		httpsling.URL(c.apiURL(contentPath)),
		httpsling.Post(),
		httpsling.BearerAuth(c.apiToken),
		httpsling.JSONBody(body),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var cfResp contentResponse

	resp, err := requester.ReceiveWithContext(ctx, &cfResp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if !cfResp.Success || strings.TrimSpace(cfResp.Result) == "" {
		return "", ErrRenderingFailed
	}

	return cfResp.Result, nil
}
