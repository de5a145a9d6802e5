package transform

import (
	"math"
	"regexp"
	"strings"

	"FinCrawl/internal/domain/models"
	"FinCrawl/pkg/util"
)

// Directional markers TWSE embeds in the 漲跌(+/-) column, spaces removed.
const (
	markerUp   = "color:red>+</p>"
	markerDown = "color:green>-</p>"
)

// Ex-dividend / ex-rights annotations, longest first.
var annotations = []string{"除權息", "除息", "除權"}

var dashRun = regexp.MustCompile(`-{2,4}`)

// missing-value spellings found in exchange downloads; they coerce to 0
var missingNumbers = map[string]bool{
	"NaN": true, "nan": true, "-NaN": true,
	"N/A": true, "n/a": true, "#N/A": true, "NA": true,
	"null": true, "NULL": true, "None": true,
}

var sessionLabels = map[string]models.TradingSession{
	"一般":          models.SessionPosition,
	"盤後":          models.SessionAfterMarket,
	"Position":    models.SessionPosition,
	"AfterMarket": models.SessionAfterMarket,
}

// Coercer casts normalized cells into canonical types, column by column.
// Coerce is idempotent: canonical input passes through unchanged.
type Coercer struct {
	rules models.CoerceRules
}

func NewCoercer(rules models.CoerceRules) *Coercer {
	return &Coercer{rules: rules}
}

// Coerce returns a new table with every rule applied.
func (c *Coercer) Coerce(table models.RawTable) models.RawTable {
	out := models.RawTable{Rows: make([]models.Row, 0, len(table.Rows))}
	for _, col := range table.Columns {
		if c.rules.Sign != nil && col == c.rules.Sign.Marker {
			continue
		}
		out.Columns = append(out.Columns, col)
	}
	for _, col := range c.required() {
		if !out.Has(col) {
			out.Columns = append(out.Columns, col)
		}
	}

	for _, row := range table.Rows {
		out.Rows = append(out.Rows, c.coerceRow(row))
	}
	return out
}

func (c *Coercer) required() []string {
	cols := append([]string{}, c.rules.Numeric...)
	cols = append(cols, c.rules.Percent...)
	if c.rules.Session != "" {
		cols = append(cols, c.rules.Session)
	}
	return cols
}

func (c *Coercer) coerceRow(in models.Row) models.Row {
	row := make(models.Row, len(in))
	for k, v := range in {
		row[k] = v
	}

	if s := c.rules.Sign; s != nil {
		if marker, ok := row[s.Marker]; ok {
			sign := MarkerSign(models.CellString(marker))
			if v, ok := toFloat(row[s.Target], false); ok {
				row[s.Target] = sign * math.Abs(v)
			}
			delete(row, s.Marker)
		}
	}

	for _, col := range c.rules.Numeric {
		row[col] = coerceNumber(row[col], false)
	}
	for _, col := range c.rules.Percent {
		row[col] = coerceNumber(row[col], true)
	}
	for _, col := range c.rules.Dates {
		if s, ok := row[col].(string); ok {
			if iso, ok := util.NormalizeDate(s); ok {
				row[col] = iso
			}
		}
	}
	for _, col := range c.rules.Compact {
		if v, ok := row[col]; ok && v != nil {
			row[col] = strings.Join(strings.Fields(models.CellString(v)), "")
		}
	}
	for _, col := range c.rules.Text {
		if v, ok := row[col]; ok && v != nil {
			row[col] = strings.TrimSpace(models.CellString(v))
		}
	}
	if col := c.rules.Session; col != "" {
		row[col] = CoerceSession(row[col])
	}
	return row
}

// CoerceSession maps a source session label to the canonical enum. A missing
// cell means the source has no session column, i.e. the regular session.
// Unknown labels are returned untouched for the validator to reject.
func CoerceSession(v any) any {
	if v == nil {
		return string(models.SessionPosition)
	}
	label := strings.TrimSpace(models.CellString(v))
	if label == "" {
		return string(models.SessionPosition)
	}
	if s, ok := sessionLabels[label]; ok {
		return string(s)
	}
	return label
}

// MarkerSign decodes the TWSE direction markup: -1 for the green "-" marker,
// +1 for the red "+" marker or anything else.
func MarkerSign(cell string) float64 {
	c := strings.ReplaceAll(cell, " ", "")
	switch {
	case strings.Contains(c, markerDown):
		return -1
	case strings.Contains(c, markerUp):
		return 1
	}
	return 1
}

// CleanNumber strips separators, halt markers and annotations from a numeric cell.
func CleanNumber(s string) string {
	s = strings.Join(strings.Fields(s), "")
	s = util.RemoveAll(s, ",", "X", "+")
	s = util.RemoveAll(s, annotations...)
	s = dashRun.ReplaceAllString(s, "")
	if s == "-" {
		return ""
	}
	return s
}

func coerceNumber(v any, percent bool) any {
	if f, ok := toFloat(v, percent); ok {
		return f
	}
	// unparseable text is left for schema validation to reject
	return v
}

func toFloat(v any, percent bool) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, true
		}
		return x, true
	case int:
		return float64(x), true
	}
	s := CleanNumber(models.CellString(v))
	if percent {
		s = strings.TrimSuffix(s, "%")
	}
	if s == "" || missingNumbers[s] {
		return 0, true
	}
	return util.ParseFloat(s)
}
