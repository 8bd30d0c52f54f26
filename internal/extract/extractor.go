package extract

import (
	"context"
	"strings"

	"github.com/theopenlane/echoaudit/internal/types"
)

// Extractor obtains the visible text of a page. A non-nil error means the
// text is absent; an empty string with a nil error means the page had no content
type Extractor interface {
	Extract(ctx context.Context, page types.PageHandle) (string, error)
}

// Func adapts a function to the Extractor interface
type Func func(ctx context.Context, page types.PageHandle) (string, error)

// Extract calls f
func (f Func) Extract(ctx context.Context, page types.PageHandle) (string, error) {
	return f(ctx, page)
}

// Document extracts text from markup the caller already holds
type Document struct{}

// Extract cleans page.HTML
func (Document) Extract(_ context.Context, page types.PageHandle) (string, error) {
	if page.HTML == "" {
		return "", ErrNoHTML
	}

	return FromHTML(strings.NewReader(page.HTML))
}
