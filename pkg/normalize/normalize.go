// Package normalize turns raw article paragraphs into the flat,
// lowercase, ASCII-only text expected by the downstream corpus tools.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/presscorpus/presscorpus/pkg/domain"
)

// number of leading paragraphs holding title, metadata, byline and
// summary rather than body content
const headerParagraphs = 4

var (
	reDigits   = regexp.MustCompile(`[0-9]+`)
	rePunct    = regexp.MustCompile(`\p{P}+`)
	reNonAlnum = regexp.MustCompile(`[^a-z0-9\s]+`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// Body extracts and normalizes the body text of a raw article. Header
// paragraphs are dropped, the rest concatenated with single spaces and
// passed through Clean. Always returns a string, empty when the article
// has no body paragraphs.
func Body(raw domain.RawArticle) string {
	if len(raw.Paragraphs) <= headerParagraphs {
		return ""
	}
	return Clean(strings.Join(raw.Paragraphs[headerParagraphs:], " "))
}

// Clean applies the normalization chain: lowercase, ASCII fold, digit
// removal, punctuation removal, non-alphanumeric to space, whitespace
// collapse, trim. Punctuation goes before the generic sweep so removed
// marks don't leave doubled separators; collapsing runs last. Idempotent.
func Clean(s string) string {
	s = strings.ToLower(s)
	s = Fold(s)
	s = reDigits.ReplaceAllString(s, "")
	s = rePunct.ReplaceAllString(s, "")
	s = reNonAlnum.ReplaceAllString(s, " ")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Fold transliterates to plain ASCII by decomposing and stripping
// combining marks, so "Économie" becomes "Economie". Input that can't
// be transformed is returned unchanged.
func Fold(s string) string {
	// transformers are stateful, build one per call for goroutine safety
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
