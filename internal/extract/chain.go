package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/theopenlane/echoaudit/internal/types"
)

// Mode selects how pages without inline markup or a page agent are read
type Mode string

const (
	// ModeFetch downloads the served markup
	ModeFetch Mode = "fetch"
	// ModeChrome renders the page in a local headless browser
	ModeChrome Mode = "chrome"
	// ModeCloudflare renders the page with Cloudflare Browser Rendering
	ModeCloudflare Mode = "cloudflare"
)

// ParseMode validates a configured mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeFetch, ModeChrome, ModeCloudflare:
		return m, nil
	case "":
		return ModeFetch, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Chain picks the extractor that fits what the caller knows about the page:
// inline markup, then a page agent for the tab, then the remote extractor
type Chain struct {
	document Extractor
	relay    Extractor
	remote   Extractor
}

// ChainOption configures the Chain
type ChainOption func(*Chain)

// WithRelay enables page agent extraction for handles with a tab id
func WithRelay(e Extractor) ChainOption {
	return func(c *Chain) {
		if e != nil {
			c.relay = e
		}
	}
}

// WithRemote sets the extractor for handles with only a URL
func WithRemote(e Extractor) ChainOption {
	return func(c *Chain) {
		if e != nil {
			c.remote = e
		}
	}
}

// NewChain returns a chain that always handles inline markup
func NewChain(opts ...ChainOption) *Chain {
	c := &Chain{document: Document{}}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Extract dispatches to the first applicable extractor
func (c *Chain) Extract(ctx context.Context, page types.PageHandle) (string, error) {
	switch {
	case page.HTML != "":
		return c.document.Extract(ctx, page)
	case page.TabID != "" && c.relay != nil:
		return c.relay.Extract(ctx, page)
	case page.URL != "" && c.remote != nil:
		return c.remote.Extract(ctx, page)
	default:
		return "", ErrNoExtractor
	}
}
