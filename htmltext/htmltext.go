// Package htmltext approximates the rendered text of HTML fragments so that
// line-oriented parsing heuristics can run on goquery selections.
package htmltext

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Text returns the rendered text of a selection with newlines inserted at
// block boundaries (table cells, list items, headings, <br>), which is what
// the row and section parsers key their line positions off.
func Text(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		render(n, &b)
	}
	return b.String()
}

// Lines returns the rendered text split into trimmed, non-empty lines.
func Lines(sel *goquery.Selection) []string {
	raw := strings.Split(Text(sel), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

func isBlock(tag string) bool {
	switch tag {
	case "td", "th", "tr", "li", "p", "div", "article", "section",
		"h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "table":
		return true
	}
	return false
}

// newline appends a line break unless the output already ends with one, so
// nested blocks never produce blank lines.
func newline(b *strings.Builder) {
	if s := b.String(); s != "" && !strings.HasSuffix(s, "\n") {
		b.WriteByte('\n')
	}
}

func render(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		// Indentation-only text between tags is formatting, not content.
		if strings.TrimSpace(n.Data) == "" && strings.Contains(n.Data, "\n") {
			return
		}
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript":
			return
		case "br":
			b.WriteByte('\n')
			return
		}
	}
	block := n.Type == html.ElementNode && isBlock(n.Data)
	if block {
		newline(b)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(c, b)
	}
	if block {
		newline(b)
	}
}

// Clean removes extra whitespace from a single-line value.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "\t", " ")
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}
	return strings.TrimSpace(text)
}
