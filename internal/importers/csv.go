package importers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"strings"

	"docstudio/internal/element"
)

// Limits on imported tables.
const (
	MaxTableRows = 200
	MaxTableCols = 26
)

// ErrEmpty is returned when the input holds nothing to import.
var ErrEmpty = errors.New("importers: nothing to import")

// ParseCSVTable builds a table element at (x, y) from CSV content. The first record becomes
// the shaded header row; short records are padded with empty cells. Cell text is
// HTML-escaped so it displays verbatim.
func ParseCSVTable(csvContent string, x, y float64) (*element.Element, error) {
	r := csv.NewReader(strings.NewReader(csvContent))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	if len(rows) > MaxTableRows {
		return nil, fmt.Errorf("csv has %d rows, at most %d can be imported", len(rows), MaxTableRows)
	}
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols > MaxTableCols {
		return nil, fmt.Errorf("csv has %d columns, at most %d can be imported", cols, MaxTableCols)
	}

	el := element.NewTable(x, y, len(rows), cols)
	t := el.Attrs.(*element.Table)
	for ri, row := range rows {
		for ci, v := range row {
			t.Cell(ri, ci).Content = html.EscapeString(strings.TrimSpace(v))
		}
	}
	return el, nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, v := range row {
			if strings.TrimSpace(v) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
