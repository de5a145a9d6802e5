package tpex

import (
	"context"
	"encoding/json"
	"fmt"

	"FinCrawl/internal/domain/models"
	drepo "FinCrawl/internal/domain/repository"
	"FinCrawl/pkg/util"
)

const DefaultURL = "https://www.tpex.org.tw/web/stock/aftertrading/otc_quotes_no1430/stk_wn1430.php?l=zh-tw"

// Pinned aaData positions. The endpoint sends no header, so a reordering
// upstream cannot be detected here.
var positions = map[int]string{
	0: "StockID",
	2: "Close",
	3: "Change",
	4: "Open",
	5: "Max",
	6: "Min",
	7: "TradeVolume",
	8: "TradeValue",
	9: "Transaction",
}

// Source reads the TPEX OTC daily close quotes.
type Source struct {
	url string
}

type Option func(*Source)

// WithURL overrides the quote endpoint. The URL must already carry a query string.
func WithURL(u string) Option {
	return func(s *Source) { s.url = u }
}

func New(opts ...Option) drepo.Source {
	s := &Source{url: DefaultURL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Source) ID() models.SourceID { return models.SourceTPEX }

func (s *Source) Dataset() string { return models.DatasetStockPrice }

func (s *Source) header() map[string]string {
	return map[string]string{
		"Accept":           "application/json, text/javascript, */*; q=0.01",
		"Accept-Encoding":  "gzip, deflate, br",
		"Accept-Language":  "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7",
		"Connection":       "keep-alive",
		"Host":             "www.tpex.org.tw",
		"Referer":          s.url,
		"User-Agent":       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/73.0.3683.103 Safari/537.36",
		"X-Requested-With": "XMLHttpRequest",
	}
}

// Fetch requests the quotes for date; the endpoint takes an ROC calendar date.
func (s *Source) Fetch(ctx context.Context, t drepo.Transport, date string) (int, []byte, error) {
	roc, err := util.ToROCDate(date)
	if err != nil {
		return 0, nil, fmt.Errorf("tpex date %q: %w", date, err)
	}
	return t.Get(ctx, fmt.Sprintf("%s&d=%s&se=AL", s.url, roc), s.header())
}

type response struct {
	AaData *[][]any `json:"aaData"`
}

// Parse keys every cell by its position in the aaData row.
func (s *Source) Parse(body []byte, date string) (models.RawTable, error) {
	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.RawTable{}, &models.ParseError{Source: models.SourceTPEX, Err: err}
	}
	if resp.AaData == nil {
		return models.RawTable{}, nil
	}
	data := *resp.AaData
	if len(data) == 0 {
		return models.RawTable{}, models.ErrNoData
	}

	width := 0
	for _, cells := range data {
		if len(cells) > width {
			width = len(cells)
		}
	}
	table := models.RawTable{Columns: make([]string, width), Rows: make([]models.Row, 0, len(data))}
	for i := range width {
		table.Columns[i] = models.PositionalKey(i)
	}
	for _, cells := range data {
		row := make(models.Row, len(cells))
		for i, c := range cells {
			row[models.PositionalKey(i)] = models.CellString(c)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func (s *Source) Columns() models.ColumnMap {
	labels := make(map[string]string, len(positions))
	for i, name := range positions {
		labels[models.PositionalKey(i)] = name
	}
	return models.ColumnMap{Source: models.SourceTPEX, Positional: true, Labels: labels}
}

func (s *Source) Rules() models.CoerceRules {
	return models.CoerceRules{
		Numeric: []string{"TradeVolume", "Transaction", "TradeValue", "Open", "Max", "Min", "Close", "Change"},
		Dates:   []string{"Date"},
		Text:    []string{"StockID"},
		Session: "TradingSession",
	}
}
