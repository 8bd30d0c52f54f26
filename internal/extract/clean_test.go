package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "noise removed",
			html: `<html><head><title>T</title><style>p{}</style></head><body>
				<header>Site header</header><nav>Menu</nav>
				<p>We use cookies   to improve the service.</p>
				<script>var tracking = true;</script><noscript>enable js</noscript>
				<iframe src="x"></iframe><svg><text>logo</text></svg><canvas>c</canvas>
				<footer>Footer links</footer></body></html>`,
			want: "We use cookies to improve the service.",
		},
		{
			name: "hidden elements dropped",
			html: `<body><p>Visible terms.</p><div hidden>Secret</div>
				<span aria-hidden="true">icon</span>
				<div style="display: none">gone</div><div style="VISIBILITY:hidden">also gone</div>
				<div style="color:red">Red text.</div></body>`,
			want: "Visible terms. Red text.",
		},
		{
			name: "line break preserved",
			html: `<body><p>Line one<br>Line two</p></body>`,
			want: "Line one\nLine two",
		},
		{
			name: "blocks separated",
			html: `<body><h1>Terms</h1><ul><li>First</li><li>Second</li></ul></body>`,
			want: "Terms First Second",
		},
		{
			name: "empty body",
			html: `<html><body><script>only()</script></body></html>`,
			want: "",
		},
		{
			name: "fragment",
			html: `plain words`,
			want: "plain words",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromHTML(strings.NewReader(tc.html))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCleanLeavesDocumentIntact(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<body><nav>Menu</nav><p>Body</p></body>`))
	require.NoError(t, err)

	assert.Equal(t, "Body", Clean(doc))
	assert.Equal(t, 1, doc.Find("nav").Length())
	assert.Equal(t, "", Clean(nil))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b", Normalize("  a \n\n\t b  "))
	assert.Equal(t, "a\nb", Normalize("a\nb"))
	assert.Equal(t, "", Normalize(" \n "))
	assert.Equal(t, "We share data here", Normalize("We\u00a0\u00a0\u00a0share data\u2003\u2003here"))
	assert.Equal(t, "a\u00a0b", Normalize("a\u00a0b"))
}

func TestFromHTMLCollapsesUnicodeSpaces(t *testing.T) {
	text, err := FromHTML(strings.NewReader("<p>We&nbsp;&nbsp;&nbsp;share data&emsp;&emsp;here</p>"))
	require.NoError(t, err)
	assert.Equal(t, "We share data here", text)
}
