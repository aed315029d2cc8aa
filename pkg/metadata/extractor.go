// Package metadata derives publication date and outlet identifier from
// the fixed-position metadata paragraph of a raw article.
package metadata

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/presscorpus/presscorpus/pkg/domain"
	"github.com/presscorpus/presscorpus/pkg/normalize"
)

// metadataParagraph is the paragraph index carrying outlet and date
const metadataParagraph = 1

// reDate matches "<2-digit day> <month token> <4-digit year>"
var reDate = regexp.MustCompile(`\b(\d{2})\s+(\p{L}+\.?)\s+(\d{4})\b`)

// reLabelSep matches the characters replaced with underscores in
// outlet identifiers
var reLabelSep = regexp.MustCompile(`[\s-]+`)

// DateParseError reports a metadata paragraph without a resolvable
// date; the row is retained with a null date.
type DateParseError struct {
	File   string
	Reason string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("parse date in %q: %s", e.File, e.Reason)
}

// SourceParseError reports a metadata paragraph without a resolvable
// outlet; the row is retained with a null source.
type SourceParseError struct {
	File   string
	Reason string
}

func (e *SourceParseError) Error() string {
	return fmt.Sprintf("parse source in %q: %s", e.File, e.Reason)
}

// Extractor parses dates and outlet identifiers using an injected
// per-locale month table, independent of host locale state.
type Extractor struct {
	locale domain.Locale
	months map[string]time.Month
}

// New creates an extractor for the given locale
func New(locale domain.Locale) (*Extractor, error) {
	months, ok := monthTables[locale]
	if !ok {
		return nil, fmt.Errorf("no month table for locale %q", locale)
	}
	return &Extractor{locale: locale, months: months}, nil
}

// Date extracts the publication date from the article's metadata
// paragraph. Returns *DateParseError when no date pattern is found or
// the match is not a valid calendar date.
func (e *Extractor) Date(raw domain.RawArticle) (time.Time, error) {
	para := metaParagraph(raw)
	m := reDate.FindStringSubmatch(para)
	if m == nil {
		return time.Time{}, &DateParseError{File: raw.File, Reason: "no date pattern in metadata paragraph"}
	}

	day, year := atoi(m[1]), atoi(m[3])
	month, ok := e.months[monthKey(m[2])]
	if !ok {
		return time.Time{}, &DateParseError{File: raw.File, Reason: fmt.Sprintf("unknown %s month token %q", e.locale, m[2])}
	}

	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month || day == 0 {
		return time.Time{}, &DateParseError{File: raw.File, Reason: fmt.Sprintf("invalid calendar date %02d %s %04d", day, m[2], year)}
	}
	return d, nil
}

// Source extracts the normalized outlet identifier from the article's
// metadata paragraph. The paragraph is split at the first "*"; the half
// without the date pattern is the outlet name (archive exports place
// the outlet before the star, some put it after the date). The name is
// trimmed of asterisks and whitespace, separators become underscores
// and diacritics are stripped. Returns *SourceParseError when no "*"
// delimiter exists or the outlet name is empty.
func (e *Extractor) Source(raw domain.RawArticle) (string, error) {
	para := strings.TrimLeft(metaParagraph(raw), "* \t")
	idx := strings.IndexByte(para, '*')
	if idx < 0 {
		return "", &SourceParseError{File: raw.File, Reason: "no '*' delimiter in metadata paragraph"}
	}

	name := para[:idx]
	if strings.TrimSpace(name) == "" || (reDate.MatchString(name) && !reDate.MatchString(para[idx+1:])) {
		name = para[idx+1:]
	}
	// when the outlet half still carries the date, drop it
	name = reDate.ReplaceAllString(name, "")
	label := Label(name)
	if label == "" {
		return "", &SourceParseError{File: raw.File, Reason: "empty outlet name"}
	}
	return label, nil
}

// Label normalizes an outlet name to its column-label form: asterisks
// and surrounding whitespace trimmed, spaces and hyphens replaced with
// underscores, diacritics stripped. Configured outlet sets go through
// the same normalization so they compare against extracted sources.
func Label(name string) string {
	label := normalize.Fold(strings.Trim(name, "* \t"))
	label = reLabelSep.ReplaceAllString(label, "_")
	return strings.Trim(label, "_")
}

// metaParagraph returns the metadata paragraph or "" for short articles
func metaParagraph(raw domain.RawArticle) string {
	if len(raw.Paragraphs) <= metadataParagraph {
		return ""
	}
	return raw.Paragraphs[metadataParagraph]
}

// monthKey folds a month token for table lookup: lowercase, ASCII,
// abbreviation dot stripped
func monthKey(token string) string {
	return strings.TrimSuffix(normalize.Fold(strings.ToLower(token)), ".")
}

// atoi converts digits already validated by the regexp
func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
