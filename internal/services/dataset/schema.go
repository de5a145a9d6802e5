package dataset

import "FinCrawl/internal/domain/models"

// FieldKind is the target type of a canonical field.
type FieldKind int

const (
	KindString FieldKind = iota
	KindFloat
	KindDate
	KindSession
)

// Field describes one canonical column. Optional fields fall back to the
// record's `default` tag.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
}

// Schema is a named set of fields plus a constructor for the typed record.
type Schema struct {
	Name   string
	Fields []Field
	New    func() models.Record
}

// Columns lists field names in schema order.
func (s Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}

func StockPriceSchema() Schema {
	return Schema{
		Name: models.DatasetStockPrice,
		Fields: []Field{
			{Name: "StockID", Kind: KindString, Required: true},
			{Name: "Date", Kind: KindDate, Required: true},
			{Name: "TradeVolume", Kind: KindFloat, Required: true},
			{Name: "Transaction", Kind: KindFloat, Required: true},
			{Name: "TradeValue", Kind: KindFloat, Required: true},
			{Name: "Open", Kind: KindFloat, Required: true},
			{Name: "Max", Kind: KindFloat, Required: true},
			{Name: "Min", Kind: KindFloat, Required: true},
			{Name: "Close", Kind: KindFloat, Required: true},
			{Name: "Change", Kind: KindFloat, Required: true},
			{Name: "TradingSession", Kind: KindSession},
		},
		New: func() models.Record { return &models.TaiwanStockPrice{} },
	}
}

func FuturesDailySchema() Schema {
	return Schema{
		Name: models.DatasetFuturesDaily,
		Fields: []Field{
			{Name: "FuturesID", Kind: KindString, Required: true},
			{Name: "Date", Kind: KindDate, Required: true},
			{Name: "ContractDate", Kind: KindString, Required: true},
			{Name: "Open", Kind: KindFloat, Required: true},
			{Name: "Max", Kind: KindFloat, Required: true},
			{Name: "Min", Kind: KindFloat, Required: true},
			{Name: "Close", Kind: KindFloat, Required: true},
			{Name: "Change", Kind: KindFloat, Required: true},
			{Name: "ChangePer", Kind: KindFloat, Required: true},
			{Name: "Volume", Kind: KindFloat, Required: true},
			{Name: "SettlementPrice", Kind: KindFloat, Required: true},
			{Name: "OpenInterest", Kind: KindFloat, Required: true},
			{Name: "TradingSession", Kind: KindSession},
		},
		New: func() models.Record { return &models.TaiwanFuturesDaily{} },
	}
}

// DefaultSchemas returns the schema set keyed by dataset name.
func DefaultSchemas() map[string]Schema {
	return map[string]Schema{
		models.DatasetStockPrice:   StockPriceSchema(),
		models.DatasetFuturesDaily: FuturesDailySchema(),
	}
}
