package detail

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"voterlookup/htmltext"
)

// The portal's detail page has gone through revisions that label values two
// different ways: an h6 label element followed by a sibling holding the
// value, and value elements carrying a stable id token. Neither markup
// clearly supersedes the other, so every field lookup tries the label-sibling
// strategy first and the id-substring strategy second.

// labelSibling returns the text of the element immediately following the
// first h6 whose text contains label (case-insensitive).
func labelSibling(section *goquery.Selection, label string) string {
	label = strings.ToLower(label)
	var out string
	section.Find("h6").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(h.Text()), label) {
			return true
		}
		out = htmltext.Clean(h.Next().Text())
		return false
	})
	return out
}

// labelSiblingSecondLine returns the text of the element after the value
// element, used for two-line values such as addresses.
func labelSiblingSecondLine(section *goquery.Selection, label string) string {
	label = strings.ToLower(label)
	var out string
	section.Find("h6").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(h.Text()), label) {
			return true
		}
		out = htmltext.Clean(h.Next().Next().Text())
		return false
	})
	return out
}

// idToken returns the text of the first element whose id attribute contains
// token.
func idToken(section *goquery.Selection, token string) string {
	return htmltext.Clean(section.Find(`[id*="` + token + `"]`).First().Text())
}

// value resolves a field by trying the label-sibling strategy, then the
// id-substring strategy. An empty token skips the second strategy.
func value(section *goquery.Selection, label, token string) string {
	if v := labelSibling(section, label); v != "" {
		return v
	}
	if token == "" {
		return ""
	}
	return idToken(section, token)
}
