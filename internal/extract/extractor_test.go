package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theopenlane/echoaudit/internal/types"
)

func TestDocument(t *testing.T) {
	text, err := Document{}.Extract(context.Background(), types.PageHandle{HTML: "<p>Hello terms</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Hello terms", text)

	_, err = Document{}.Extract(context.Background(), types.PageHandle{URL: "https://example.com"})
	assert.ErrorIs(t, err, ErrNoHTML)
}

func TestFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/terms":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><body><nav>x</nav><p>We may share your data with partners.</p></body></html>`))
		case "/plain":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("Plain   terms\n\n\ntext"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewFetcher(WithFetchHTTPClient(server.Client()))

	text, err := f.Extract(context.Background(), types.PageHandle{URL: server.URL + "/terms"})
	require.NoError(t, err)
	assert.Equal(t, "We may share your data with partners.", text)

	text, err = f.Extract(context.Background(), types.PageHandle{URL: server.URL + "/plain"})
	require.NoError(t, err)
	assert.Equal(t, "Plain terms text", text)

	_, err = f.Extract(context.Background(), types.PageHandle{URL: server.URL + "/missing"})
	require.Error(t, err)

	_, err = f.Extract(context.Background(), types.PageHandle{})
	assert.ErrorIs(t, err, ErrNoURL)
}

type stubRenderer struct {
	html string
	err  error
}

func (s stubRenderer) RenderContent(_ context.Context, _ string) (string, error) {
	return s.html, s.err
}

func TestRendered(t *testing.T) {
	r := NewRendered(stubRenderer{html: "<body><p>Rendered policy.</p><footer>f</footer></body>"})

	text, err := r.Extract(context.Background(), types.PageHandle{URL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Rendered policy.", text)

	r = NewRendered(stubRenderer{err: errors.New("quota")})
	_, err = r.Extract(context.Background(), types.PageHandle{URL: "https://example.com"})
	assert.ErrorIs(t, err, ErrRenderFailed)

	_, err = r.Extract(context.Background(), types.PageHandle{})
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestChromeRequiresURL(t *testing.T) {
	c := NewChrome(WithChromeTimeout(0), WithChromeUserAgent(""))
	defer c.Close() //nolint:errcheck

	assert.Equal(t, defaultChromeTimeout, c.timeout)

	_, err := c.Extract(context.Background(), types.PageHandle{})
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "fetch", want: ModeFetch},
		{in: " Chrome ", want: ModeChrome},
		{in: "cloudflare", want: ModeCloudflare},
		{in: "", want: ModeFetch},
		{in: "lynx", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMode(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestChain(t *testing.T) {
	named := func(name string) Extractor {
		return Func(func(_ context.Context, _ types.PageHandle) (string, error) {
			return name, nil
		})
	}

	full := NewChain(WithRelay(named("relay")), WithRemote(named("remote")))
	bare := NewChain(WithRelay(nil), WithRemote(nil))

	tests := []struct {
		name    string
		chain   *Chain
		page    types.PageHandle
		want    string
		wantErr error
	}{
		{name: "inline html wins", chain: full, page: types.PageHandle{HTML: "<p>doc</p>", TabID: "1", URL: "https://a.com"}, want: "doc"},
		{name: "tab uses relay", chain: full, page: types.PageHandle{TabID: "1", URL: "https://a.com"}, want: "relay"},
		{name: "url uses remote", chain: full, page: types.PageHandle{URL: "https://a.com"}, want: "remote"},
		{name: "tab without relay", chain: bare, page: types.PageHandle{TabID: "1"}, wantErr: ErrNoExtractor},
		{name: "nothing", chain: full, page: types.PageHandle{}, wantErr: ErrNoExtractor},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.chain.Extract(context.Background(), tc.page)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
