package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/theopenlane/echoaudit/internal/types"
)

const (
	// defaultChromeTimeout bounds navigation plus text extraction
	defaultChromeTimeout = 45 * time.Second
	// defaultUserAgent is sent by the headless browser
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// visibleTextScript strips noise elements in the live page and reads the
// style-aware rendered text
const visibleTextScript = `(() => {
  if (!document.body) { return ""; }
  const clone = document.body.cloneNode(true);
  clone.querySelectorAll("script, style, noscript, iframe, svg, canvas, header, footer, nav").forEach((el) => el.remove());
  const holder = document.createElement("div");
  holder.style.position = "absolute";
  holder.style.left = "-99999px";
  holder.appendChild(clone);
  document.documentElement.appendChild(holder);
  const text = clone.innerText || "";
  holder.remove();
  return text;
})()`

// Chrome renders pages in a headless browser so script-built documents are read as shown
type Chrome struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	timeout     time.Duration
}

// ChromeOption configures the Chrome extractor
type ChromeOption func(*chromeSettings)

type chromeSettings struct {
	timeout   time.Duration
	userAgent string
	execPath  string
}

// WithChromeTimeout overrides the per-page timeout
func WithChromeTimeout(d time.Duration) ChromeOption {
	return func(s *chromeSettings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithChromeUserAgent overrides the browser user agent
func WithChromeUserAgent(ua string) ChromeOption {
	return func(s *chromeSettings) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithChromePath points at a specific browser binary
func WithChromePath(path string) ChromeOption {
	return func(s *chromeSettings) {
		if path != "" {
			s.execPath = path
		}
	}
}

// NewChrome starts a browser allocator; Close releases it
func NewChrome(opts ...ChromeOption) *Chrome {
	settings := chromeSettings{timeout: defaultChromeTimeout, userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(&settings)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(settings.userAgent),
		chromedp.Flag("headless", true),
	)

	if settings.execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(settings.execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	return &Chrome{allocCtx: allocCtx, cancelAlloc: cancel, timeout: settings.timeout}
}

// Extract navigates to page.URL in a fresh tab and returns its visible text
func (c *Chrome) Extract(ctx context.Context, page types.PageHandle) (string, error) {
	if page.URL == "" {
		return "", ErrNoURL
	}

	tabCtx, cancelTab := chromedp.NewContext(c.allocCtx)
	defer cancelTab()

	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
	defer cancelTimeout()

	var text string

	if err := chromedp.Run(tabCtx,
		chromedp.Navigate(page.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(visibleTextScript, &text),
	); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBrowserFailed, err)
	}

	return Normalize(text), nil
}

// Close shuts the browser down
func (c *Chrome) Close() error {
	c.cancelAlloc()
	return nil
}
