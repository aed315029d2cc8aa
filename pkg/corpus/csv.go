package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// dateLayout is the column format for publication dates
const dateLayout = "2006-01-02"

// WriteCSV streams the table in the shape the downstream corpus
// constructor expects: id, date, text, language, then one column per
// feature label. Null dates render as empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{"id", "date", "text", "language"}, t.Features...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, 0, len(header))
	for _, row := range t.Rows {
		record = record[:0]
		date := ""
		if row.Date != nil {
			date = row.Date.Format(dateLayout)
		}
		record = append(record, strconv.Itoa(row.ID), date, row.Text, row.Language)
		for _, v := range row.Values {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to a file
func (t *Table) SaveCSV(path string) error {
	f, err := os.Create(path) //nolint:gosec // output path comes from config
	if err != nil {
		return fmt.Errorf("create csv file %q: %w", path, err)
	}
	defer f.Close()

	if err := t.WriteCSV(f); err != nil {
		return err
	}
	return f.Close()
}
