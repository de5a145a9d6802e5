package models

// DropColumn marks a source column that has no canonical field.
const DropColumn = ""

// ColumnMap is the fixed label lookup of one source.
type ColumnMap struct {
	Source SourceID
	// Positional sources key columns by index and cannot detect unknown columns.
	Positional bool
	// Strict sources fail with UnknownColumnError on labels missing from Labels.
	Strict bool
	Labels map[string]string
}

// SignRule folds a directional marker column into a numeric column.
type SignRule struct {
	Marker string
	Target string
}

// CoerceRules lists, per canonical column, how raw cells are cast.
type CoerceRules struct {
	Numeric []string
	// Percent columns are numeric with a trailing "%".
	Percent []string
	Dates   []string
	// Compact columns are strings with every space removed.
	Compact []string
	Text    []string
	// Session names the trading-session column; empty when the dataset has none.
	Session string
	Sign    *SignRule
}
