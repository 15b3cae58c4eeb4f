// Package extract provides HTML content and link extraction for the
// crawler: visible-text cleanup, search-term snippet extraction, and
// anchor discovery.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Element types that never contribute visible page content.
const strippedElements = "script,style,nav,footer,header,meta,link,noscript"

var repeatedSpaceRegex = regexp.MustCompile(`\s+`)

// Markers delimiting a matched term inside a snippet. The presentation
// layer replaces them with whatever highlighting it supports.
const (
	MatchOpen  = "»"
	MatchClose = "«"
)

// CleanText strips non-content markup from an HTML document and returns
// its visible text with whitespace collapsed to single spaces. Malformed
// HTML is handled best-effort; the result is never an error, at worst an
// empty string.
func CleanText(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	doc.Find(strippedElements).Remove()

	text := repeatedSpaceRegex.ReplaceAllString(doc.Text(), " ")
	return strings.TrimSpace(text)
}

// termPattern builds a case-insensitive literal matcher for term.
// Matching the original text directly keeps every offset valid in it;
// lowercasing a copy would shift offsets for runes whose lowercase form
// has a different UTF-8 length.
func termPattern(term string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
}

// FindSnippets searches text case-insensitively for all non-overlapping
// occurrences of term and returns one snippet per occurrence in
// left-to-right order. Each snippet covers radius characters of context
// on both sides, clamped to the text bounds, with the match itself
// delimited by MatchOpen and MatchClose. An empty term yields no
// snippets.
func FindSnippets(text, term string, radius int) []string {
	if term == "" {
		return nil
	}
	if radius < 0 {
		radius = 0
	}

	matches := termPattern(term).FindAllStringIndex(text, -1)

	var snippets []string
	for _, match := range matches {
		matchStart, matchEnd := match[0], match[1]

		from := matchStart
		for i := 0; i < radius && from > 0; i++ {
			_, size := utf8.DecodeLastRuneInString(text[:from])
			from -= size
		}
		to := matchEnd
		for i := 0; i < radius && to < len(text); i++ {
			_, size := utf8.DecodeRuneInString(text[to:])
			to += size
		}

		snippets = append(snippets,
			text[from:matchStart]+MatchOpen+text[matchStart:matchEnd]+MatchClose+text[matchEnd:to])
	}

	return snippets
}

// ContainsTerm reports whether term occurs in text, ignoring case.
// An empty term never matches.
func ContainsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	return termPattern(term).MatchString(text)
}
