package extract

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// noiseSelector lists elements that never carry policy text
const noiseSelector = "script, style, noscript, iframe, svg, canvas, header, footer, nav"

// hiddenSelector lists elements hidden by attribute
const hiddenSelector = "[hidden], [aria-hidden='true'], template"

var (
	// runs include unicode spaces such as no-break and em spaces
	multiSpace   = regexp.MustCompile(`[\s\p{Zs}\x{FEFF}\x{2028}\x{2029}]{2,}`)
	multiNewline = regexp.MustCompile(`\n+`)
)

// blockElements start a new line when rendered
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"figure": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "hr": true, "li": true, "main": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true, "summary": true, "details": true,
}

// Clean returns the visible text of the document body with noise elements
// removed and whitespace collapsed; the document itself is left untouched
func Clean(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}

	clone := body.Clone()
	clone.Find(noiseSelector).Remove()
	clone.Find(hiddenSelector).Remove()
	clone.Find("[style]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		style, _ := s.Attr("style")
		return hiddenByStyle(style)
	}).Remove()

	var b strings.Builder
	for _, n := range clone.Nodes {
		renderText(&b, n)
	}

	return Normalize(b.String())
}

// FromHTML parses markup and returns its cleaned visible text
func FromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	return Clean(doc), nil
}

// Normalize collapses runs of whitespace to a single space, runs of newlines
// to a single newline and trims the result
func Normalize(text string) string {
	text = multiSpace.ReplaceAllString(text, " ")
	text = multiNewline.ReplaceAllString(text, "\n")

	return strings.TrimSpace(text)
}

// hiddenByStyle reports whether an inline style hides the element
func hiddenByStyle(style string) bool {
	compact := strings.ToLower(strings.Join(strings.Fields(style), ""))

	return strings.Contains(compact, "display:none") || strings.Contains(compact, "visibility:hidden")
}

// renderText writes the text content of n, breaking lines around block elements
func renderText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		b.WriteByte('\n')
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(b, c)
	}

	if block {
		b.WriteByte('\n')
	}
}
