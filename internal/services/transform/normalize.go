package transform

import "FinCrawl/internal/domain/models"

// Normalize renames source columns to canonical fields and drops the rest.
// Row order is preserved. Only strict (named, closed-set) maps can fail.
func Normalize(table models.RawTable, m models.ColumnMap) (models.RawTable, error) {
	rename := make(map[string]string, len(table.Columns))
	var columns []string
	seen := make(map[string]bool)

	for _, col := range table.Columns {
		canonical, ok := m.Labels[col]
		if !ok {
			if m.Strict {
				return models.RawTable{}, &models.UnknownColumnError{Source: m.Source, Column: col}
			}
			canonical = models.DropColumn
		}
		if canonical == models.DropColumn || seen[canonical] {
			continue
		}
		seen[canonical] = true
		rename[col] = canonical
		columns = append(columns, canonical)
	}

	out := models.RawTable{Columns: columns, Rows: make([]models.Row, 0, len(table.Rows))}
	for _, row := range table.Rows {
		nr := make(models.Row, len(rename))
		for src, dst := range rename {
			if v, ok := row[src]; ok {
				nr[dst] = v
			}
		}
		out.Rows = append(out.Rows, nr)
	}
	return out, nil
}
