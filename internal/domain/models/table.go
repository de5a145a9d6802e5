package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Row maps a column key to a cell. Cells start out as raw strings and are
// replaced by float64 or canonical strings during coercion.
type Row map[string]any

// RawTable is the loosely typed table produced by a source parser.
// Columns keeps the original label order; positional sources use "0", "1", ...
type RawTable struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (t RawTable) Len() int { return len(t.Rows) }

// Empty reports whether the table holds no rows.
func (t RawTable) Empty() bool { return len(t.Rows) == 0 }

// Has reports whether column is part of the table.
func (t RawTable) Has(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// SetColumn sets column to value on every row, appending the column if new.
func (t *RawTable) SetColumn(column string, value any) {
	if !t.Has(column) {
		t.Columns = append(t.Columns, column)
	}
	for _, r := range t.Rows {
		r[column] = value
	}
}

// PositionalKey is the column key used for header-less sources.
func PositionalKey(i int) string { return strconv.Itoa(i) }

// CellString renders a raw cell as text. JSON numbers keep their literal form.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}
