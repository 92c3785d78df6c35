// Package htmlutil has the text helpers scrapers need on top of goquery.
package htmlutil

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// CleanText drops non-printable runes and collapses whitespace (nbsp included) into single
// spaces, trimming both ends.
func CleanText(s string) string {
	fields := strings.FieldsFunc(s, func(c rune) bool {
		return unicode.IsSpace(c) || !unicode.IsPrint(c)
	})
	return strings.Join(fields, " ")
}

// SelectionText is the cleaned text of every node in sel.
func SelectionText(sel *goquery.Selection) string {
	return CleanText(sel.Text())
}

// HrefParam returns a query parameter of the first href in sel. Relative and malformed hrefs
// are fine, an href that does not parse yields "".
func HrefParam(sel *goquery.Selection, key string) string {
	href, ok := sel.Attr("href")
	if !ok {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return u.Query().Get(key)
}
