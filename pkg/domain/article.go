package domain

import (
	"fmt"
	"time"
)

// RawArticle is one article file split into ordered paragraphs.
// Paragraph 0 is title-like, paragraph 1 carries outlet and date,
// paragraphs 4+ hold the body. Immutable once loaded.
type RawArticle struct {
	Position   int // 1-based input order, becomes the record id
	File       string
	Paragraphs []string
}

// ArticleRecord is the canonical per-article entity after extraction.
// Date and Source stay nil/empty when metadata parsing failed; such
// rows are retained to keep row counts aligned with input order.
type ArticleRecord struct {
	ID     int
	Date   *time.Time
	Source string // normalized outlet id, "" when not parsed
	Text   string // normalized body
	File   string
}

// Locale selects the month-name table used for date parsing
type Locale string

// supported locales
const (
	LocaleEnglish Locale = "english"
	LocaleDutch   Locale = "dutch"
	LocaleFrench  Locale = "french"
)

// ParseLocale validates a locale name from config or CLI
func ParseLocale(s string) (Locale, error) {
	switch Locale(s) {
	case LocaleEnglish, LocaleDutch, LocaleFrench:
		return Locale(s), nil
	}
	return "", fmt.Errorf("unsupported locale %q, must be one of english, dutch, french", s)
}
