package repository

import (
	"fmt"
	"strconv"
	"strings"

	"FinCrawl/internal/domain/models"
)

// table describes how one dataset is laid out in every sink.
type table struct {
	name    string
	prefix  string
	columns []string
	// key columns identify a row for upserts; futures carry several
	// contract months and sessions per FuturesID and day.
	key    []string
	values func(models.Record) ([]any, error)
}

var tables = map[string]table{
	models.DatasetStockPrice: {
		name:    "taiwan_stock_price",
		prefix:  "taiwan_stock_price",
		columns: []string{"StockID", "Date", "TradeVolume", "Transaction", "TradeValue", "Open", "Max", "Min", "Close", "Change", "TradingSession"},
		key:     []string{"Date", "StockID", "TradingSession"},
		values: func(rec models.Record) ([]any, error) {
			r, ok := rec.(*models.TaiwanStockPrice)
			if !ok {
				return nil, fmt.Errorf("record %T is not a TaiwanStockPrice", rec)
			}
			return []any{r.StockID, r.Date, r.TradeVolume, r.Transaction, r.TradeValue,
				r.Open, r.Max, r.Min, r.Close, r.Change, string(r.TradingSession)}, nil
		},
	},
	models.DatasetFuturesDaily: {
		name:    "taiwan_futures_daily",
		prefix:  "taiwan_futures_daily",
		columns: []string{"FuturesID", "Date", "ContractDate", "Open", "Max", "Min", "Close", "Change", "ChangePer", "Volume", "SettlementPrice", "OpenInterest", "TradingSession"},
		key:     []string{"Date", "FuturesID", "ContractDate", "TradingSession"},
		values: func(rec models.Record) ([]any, error) {
			r, ok := rec.(*models.TaiwanFuturesDaily)
			if !ok {
				return nil, fmt.Errorf("record %T is not a TaiwanFuturesDaily", rec)
			}
			return []any{r.FuturesID, r.Date, r.ContractDate, r.Open, r.Max, r.Min, r.Close,
				r.Change, r.ChangePer, r.Volume, r.SettlementPrice, r.OpenInterest, string(r.TradingSession)}, nil
		},
	},
}

func lookupTable(dataset string) (table, error) {
	t, ok := tables[dataset]
	if !ok {
		return table{}, fmt.Errorf("no table for dataset %q", dataset)
	}
	return t, nil
}

// keyOf joins the key columns of a formatted row.
func (t table) keyOf(row []string) string {
	parts := make([]string, 0, len(t.key))
	for _, k := range t.key {
		for i, c := range t.columns {
			if c == k && i < len(row) {
				parts = append(parts, row[i])
			}
		}
	}
	return strings.Join(parts, "|")
}

// formatRow renders values as CSV cells.
func formatRow(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		case string:
			out[i] = x
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}
