package twse

import (
	"context"
	"encoding/json"
	"fmt"

	"FinCrawl/internal/domain/models"
	drepo "FinCrawl/internal/domain/repository"
	"FinCrawl/pkg/util"
)

const (
	DefaultURL = "https://www.twse.com.tw/exchangeReport/MI_INDEX"
	refererURL = "https://www.twse.com.tw/zh/page/trading/exchange/MI_INDEX.html"
)

// Status messages TWSE uses for days without quotes.
const (
	StatNoData   = "很抱歉，沒有符合條件的資料!"
	StatTooEarly = "查詢日期小於93年2月11日，請重新查詢!"
)

// payload keys, probed in order: modern first, pre-2009 second
var dataKeys = []struct{ data, fields string }{
	{"data9", "fields9"},
	{"data8", "fields8"},
}

// Source reads the TWSE MI_INDEX daily quotes of every listed security.
type Source struct {
	url string
}

// Option configures Source.
type Option func(*Source)

// WithURL overrides the MI_INDEX endpoint.
func WithURL(u string) Option {
	return func(s *Source) { s.url = u }
}

// New creates the TWSE source.
func New(opts ...Option) drepo.Source {
	s := &Source{url: DefaultURL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) ID() models.SourceID { return models.SourceTWSE }

func (s *Source) Dataset() string { return models.DatasetStockPrice }

// Header returns the browser-like request headers TWSE expects.
func Header() map[string]string {
	return map[string]string{
		"Accept":           "application/json, text/javascript, */*; q=0.01",
		"Accept-Encoding":  "gzip, deflate",
		"Accept-Language":  "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7",
		"Connection":       "keep-alive",
		"Host":             "www.twse.com.tw",
		"Referer":          refererURL,
		"User-Agent":       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/71.0.3578.98 Safari/537.36",
		"X-Requested-With": "XMLHttpRequest",
	}
}

// Fetch requests every security's quote for date (YYYY-MM-DD).
func (s *Source) Fetch(ctx context.Context, t drepo.Transport, date string) (int, []byte, error) {
	u := fmt.Sprintf("%s?response=json&date=%s&type=ALL", s.url, util.Compact(date))
	return t.Get(ctx, u, Header())
}

// Parse reads the MI_INDEX JSON body.
func (s *Source) Parse(body []byte, date string) (models.RawTable, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.RawTable{}, &models.ParseError{Source: models.SourceTWSE, Err: err}
	}

	var stat string
	if raw, ok := payload["stat"]; ok {
		_ = json.Unmarshal(raw, &stat)
	}
	if stat == StatNoData || stat == StatTooEarly {
		return models.RawTable{}, models.ErrNoData
	}

	for _, k := range dataKeys {
		rawData, ok := payload[k.data]
		if !ok {
			continue
		}
		var rows [][]any
		if err := json.Unmarshal(rawData, &rows); err != nil {
			return models.RawTable{}, &models.ParseError{Source: models.SourceTWSE, Err: fmt.Errorf("%s: %w", k.data, err)}
		}
		var fields []string
		if err := json.Unmarshal(payload[k.fields], &fields); err != nil {
			return models.RawTable{}, &models.ParseError{Source: models.SourceTWSE, Err: fmt.Errorf("%s: %w", k.fields, err)}
		}
		return labeledTable(fields, rows), nil
	}

	// neither layout present and an unknown stat, e.g. a throttling notice
	return models.RawTable{}, nil
}

func labeledTable(fields []string, rows [][]any) models.RawTable {
	table := models.RawTable{Columns: fields, Rows: make([]models.Row, 0, len(rows))}
	for _, cells := range rows {
		row := make(models.Row, len(fields))
		for i, label := range fields {
			if i < len(cells) {
				row[label] = models.CellString(cells[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func (s *Source) Columns() models.ColumnMap {
	return models.ColumnMap{
		Source: models.SourceTWSE,
		Labels: map[string]string{
			"證券代號":   "StockID",
			"證券名稱":   models.DropColumn,
			"成交股數":   "TradeVolume",
			"成交筆數":   "Transaction",
			"成交金額":   "TradeValue",
			"開盤價":    "Open",
			"最高價":    "Max",
			"最低價":    "Min",
			"收盤價":    "Close",
			"漲跌(+/-)": "Dir",
			"漲跌價差":   "Change",
			"最後揭示買價": models.DropColumn,
			"最後揭示買量": models.DropColumn,
			"最後揭示賣價": models.DropColumn,
			"最後揭示賣量": models.DropColumn,
			"本益比":    models.DropColumn,
		},
	}
}

func (s *Source) Rules() models.CoerceRules {
	return models.CoerceRules{
		Numeric: []string{"TradeVolume", "Transaction", "TradeValue", "Open", "Max", "Min", "Close", "Change"},
		Dates:   []string{"Date"},
		Text:    []string{"StockID"},
		Session: "TradingSession",
		Sign:    &models.SignRule{Marker: "Dir", Target: "Change"},
	}
}
