// Package corpus assembles extracted article records into the wide
// table consumed by downstream sentiment and topic tooling: one row
// per article with id, date, normalized text, a derived language tag
// and one numeric feature column per outlet (one-hot).
package corpus

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/presscorpus/presscorpus/pkg/domain"
)

// SchemaError reports a violated one-hot invariant after the pivot.
// It is fatal: it signals colliding outlet labels or an upstream
// parsing bug, not a recoverable per-row problem.
type SchemaError struct {
	ID     int // offending row id, 0 for column-level problems
	Reason string
}

func (e *SchemaError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("one-hot schema violation: %s", e.Reason)
	}
	return fmt.Sprintf("one-hot schema violation on row %d: %s", e.ID, e.Reason)
}

// JoinError reports an id cardinality mismatch between the pivoted
// indicators and the article records. Fatal.
type JoinError struct {
	ID     int
	Reason string
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("join failure on id %d: %s", e.ID, e.Reason)
}

// Table is the wide-format corpus: fixed id/date/text/language columns
// plus one numeric feature column per label in Features. Tables are
// never mutated in place; feature replacement produces a new table.
type Table struct {
	Features []string
	Rows     []Row
}

// Row is one article in the corpus table. Values is aligned with the
// table's Features labels.
type Row struct {
	ID       int
	Date     *time.Time
	Text     string
	Language string
	Values   []float64
}

// languages assigned by the outlet partition rule
const (
	LanguageFrench = "fr"
	LanguageDutch  = "nl"
)

// Build assembles records into a corpus table. The one-hot indicator
// matrix is constructed explicitly from the distinct source values,
// verified, joined back onto the records by id, and tagged with a
// language derived from the caller-supplied French outlet set. Rows
// with a null source keep all-zero indicators: their parse failure is
// already on the run report, so they are exempt from the one-hot check.
func Build(records []domain.ArticleRecord, frenchOutlets []string) (*Table, error) {
	labels, err := sourceLabels(records)
	if err != nil {
		return nil, err
	}

	indicators, err := pivot(records, labels)
	if err != nil {
		return nil, err
	}

	table, err := join(records, labels, indicators)
	if err != nil {
		return nil, err
	}

	deriveLanguage(table, frenchOutlets)
	return table, nil
}

// sourceLabels collects distinct source values in first-seen order.
// Labels that collide case-insensitively would produce ambiguous
// columns downstream and are rejected.
func sourceLabels(records []domain.ArticleRecord) ([]string, error) {
	var labels []string
	seen := map[string]string{} // folded label -> original
	for _, rec := range records {
		if rec.Source == "" {
			continue
		}
		folded := strings.ToLower(rec.Source)
		if prev, ok := seen[folded]; ok {
			if prev != rec.Source {
				return nil, &SchemaError{Reason: fmt.Sprintf("source labels %q and %q collide", prev, rec.Source)}
			}
			continue
		}
		seen[folded] = rec.Source
		labels = append(labels, rec.Source)
	}
	return labels, nil
}

// pivot builds the indicator matrix keyed by record id and verifies
// the one-hot invariant for every row with a known source
func pivot(records []domain.ArticleRecord, labels []string) (map[int][]float64, error) {
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	indicators := make(map[int][]float64, len(records))
	for _, rec := range records {
		row := make([]float64, len(labels))
		if rec.Source != "" {
			i, ok := index[rec.Source]
			if !ok {
				return nil, &SchemaError{ID: rec.ID, Reason: fmt.Sprintf("source %q has no indicator column", rec.Source)}
			}
			row[i] = 1
		}
		indicators[rec.ID] = row
	}

	for _, rec := range records {
		if rec.Source == "" {
			continue
		}
		sum := 0.0
		for _, v := range indicators[rec.ID] {
			sum += v
		}
		if sum != 1 {
			return nil, &SchemaError{ID: rec.ID, Reason: fmt.Sprintf("indicator row sum %g, want exactly 1", sum)}
		}
	}
	return indicators, nil
}

// join merges the pivoted indicators back onto (id, date, text).
// Every record id must appear exactly once.
func join(records []domain.ArticleRecord, labels []string, indicators map[int][]float64) (*Table, error) {
	table := &Table{Features: labels, Rows: make([]Row, 0, len(records))}
	seen := make(map[int]bool, len(records))
	for _, rec := range records {
		if seen[rec.ID] {
			return nil, &JoinError{ID: rec.ID, Reason: "duplicate id"}
		}
		seen[rec.ID] = true

		values, ok := indicators[rec.ID]
		if !ok {
			return nil, &JoinError{ID: rec.ID, Reason: "no pivoted indicators for id"}
		}
		table.Rows = append(table.Rows, Row{
			ID:     rec.ID,
			Date:   rec.Date,
			Text:   rec.Text,
			Values: values,
		})
	}
	return table, nil
}

// deriveLanguage tags every row: "fr" iff exactly one of the
// designated French outlet indicators is set, "nl" otherwise. This is
// a caller-configured partition, not language detection: anything
// outside the French set, including rows with unparsed sources, is
// non-French by policy.
func deriveLanguage(table *Table, frenchOutlets []string) {
	french := make(map[int]bool, len(frenchOutlets))
	for _, outlet := range frenchOutlets {
		for i, label := range table.Features {
			if label == outlet {
				french[i] = true
			}
		}
	}

	for i := range table.Rows {
		sum := 0.0
		for j, v := range table.Rows[i].Values {
			if french[j] {
				sum += v
			}
		}
		if sum == 1 {
			table.Rows[i].Language = LanguageFrench
		} else {
			table.Rows[i].Language = LanguageDutch
		}
	}
}

// SortByDate orders rows chronologically, keeping id order for equal
// dates and pushing rows with a null date to the end
func (t *Table) SortByDate() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i].Date, t.Rows[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

// WithFeatures returns a new table with the feature columns replaced
// by externally computed values, keyed by row id. The id, date, text
// and language columns are preserved unchanged. Every existing row
// must be covered and every value row must match the new labels.
func (t *Table) WithFeatures(labels []string, values map[int][]float64) (*Table, error) {
	out := &Table{Features: labels, Rows: make([]Row, len(t.Rows))}
	for i, row := range t.Rows {
		vals, ok := values[row.ID]
		if !ok {
			return nil, &JoinError{ID: row.ID, Reason: "no replacement features for id"}
		}
		if len(vals) != len(labels) {
			return nil, &SchemaError{ID: row.ID, Reason: fmt.Sprintf("%d feature values for %d columns", len(vals), len(labels))}
		}
		out.Rows[i] = Row{ID: row.ID, Date: row.Date, Text: row.Text, Language: row.Language, Values: vals}
	}
	return out, nil
}
