// Package parser holds the pure text and HTML helpers used by the lookup
// pipeline: search-query normalization and label-based page extraction.
package parser

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

var quoteRunes = map[rune]struct{}{
	'\'': {},
	'"':  {},
	'‘':  {},
	'’':  {},
	'“':  {},
	'”':  {},
}

// Normalize canonicalizes a free-text search query: Unicode decomposition
// with the non-ASCII remainder dropped (GIVĒON -> GIVEON), quote characters
// removed, every other non-word/non-space rune removed, and the result
// trimmed. Pure and idempotent.
func Normalize(text string) string {
	folded := norm.NFKD.String(text)

	var out strings.Builder
	out.Grow(len(folded))
	for _, r := range folded {
		if r > unicode.MaxASCII {
			continue
		}
		if _, quote := quoteRunes[r]; quote {
			continue
		}
		if !isWordRune(r) && !unicode.IsSpace(r) {
			continue
		}
		out.WriteRune(r)
	}

	return strings.TrimSpace(out.String())
}

// isWordRune reports whether r belongs to the \w class.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// FindValueFollowingLabel locates the first <p> element whose trimmed text
// equals label and returns the trimmed text of its immediately following
// sibling <p>. The second return is false when the label is absent or has no
// paragraph sibling.
//
// The detail pages pair every metric label with a value paragraph right next
// to it, so sibling position is the only structural assumption made here.
func FindValueFollowingLabel(doc *goquery.Document, label string) (string, bool) {
	var value string
	var found bool

	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.TrimSpace(sel.Text()) != label {
			return true
		}
		if next := sel.Next(); next.Is("p") {
			value = strings.TrimSpace(next.Text())
			found = true
		}
		return false
	})

	return value, found
}
