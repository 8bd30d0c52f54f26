package cloudflare

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"github.com/theopenlane/httpsling"
)

// linksPath is the API path for the links found on a rendered page
const linksPath = "browser-rendering/links"

// linksResponse is the Cloudflare envelope for the links endpoint
type linksResponse struct {
	Success bool     `json:"success"`
	Result  []string `json:"result"`
}

// RenderLinks loads pageURL in a remote browser and returns the visible
// same-site links, which catches footers rendered by client-side scripts
func (c *Client) RenderLinks(ctx context.Context, pageURL string) ([]string, error) {
	body := newRenderRequest(pageURL)
	body.VisibleLinksOnly = true
	body.ExcludeExternalLinks = true

	requester := httpsling.MustNew(
		httpsling.URL(c.apiURL(linksPath)),
		httpsling.Post(),
		httpsling.BearerAuth(c.apiToken),
		httpsling.JSONBody(body),
		httpsling.WithHTTPClient(c.httpClient),
	)

	var cfResp linksResponse

	resp, err := requester.ReceiveWithContext(ctx, &cfResp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close error is non-critical

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if !cfResp.Success {
		return nil, ErrRenderingFailed
	}

	return lo.Uniq(lo.Compact(cfResp.Result)), nil
}
