package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/theopenlane/echoaudit/internal/types"
)

// Renderer returns the fully rendered markup of a page
type Renderer interface {
	RenderContent(ctx context.Context, pageURL string) (string, error)
}

// Rendered extracts text from markup produced by a remote rendering service
type Rendered struct {
	renderer Renderer
}

// NewRendered wraps a rendering service
func NewRendered(r Renderer) *Rendered {
	return &Rendered{renderer: r}
}

// Extract renders page.URL remotely and cleans the result
func (r *Rendered) Extract(ctx context.Context, page types.PageHandle) (string, error) {
	if page.URL == "" {
		return "", ErrNoURL
	}

	markup, err := r.renderer.RenderContent(ctx, page.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return FromHTML(strings.NewReader(markup))
}
