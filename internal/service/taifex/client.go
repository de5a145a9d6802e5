package taifex

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"FinCrawl/internal/domain/models"
	drepo "FinCrawl/internal/domain/repository"
	"FinCrawl/pkg/util"

	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

const (
	DefaultURL = "https://www.taifex.com.tw/cht/3/futDataDown"
	refererURL = "https://www.taifex.com.tw/cht/3/dlFutDailyMarketView"
)

// dateLabel identifies a real futures CSV; the endpoint answers holidays with an HTML page.
const dateLabel = "交易日期"

var enc = traditionalchinese.Big5

// Source downloads the TAIFEX daily futures CSV for every contract.
type Source struct {
	url string
}

type Option func(*Source)

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

func (s *Source) ID() models.SourceID { return models.SourceTAIFEX }

func (s *Source) Dataset() string { return models.DatasetFuturesDaily }

func header() map[string]string {
	return map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9",
		"Accept-Encoding":           "gzip, deflate, br",
		"Accept-Language":           "zh-TW,zh;q=0.9,en-US;q=0.8,en;q=0.7",
		"Cache-Control":             "max-age=0",
		"Connection":                "keep-alive",
		"Content-Type":              "application/x-www-form-urlencoded",
		"Host":                      "www.taifex.com.tw",
		"Origin":                    "https://www.taifex.com.tw",
		"Referer":                   refererURL,
		"Upgrade-Insecure-Requests": "1",
		"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/81.0.4044.113 Safari/537.36",
	}
}

// Fetch posts the download form for a single day.
func (s *Source) Fetch(ctx context.Context, t drepo.Transport, date string) (int, []byte, error) {
	day := util.Slashed(date)
	form := map[string]string{
		"down_type":      "1",
		"commodity_id":   "all",
		"queryStartDate": day,
		"queryEndDate":   day,
	}
	return t.Post(ctx, s.url, header(), form)
}

// Parse decodes the Big5 CSV. The header row keeps its labels as column keys.
func (s *Source) Parse(body []byte, date string) (models.RawTable, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return models.RawTable{}, nil
	}

	r := csv.NewReader(transform.NewReader(bytes.NewReader(body), enc.NewDecoder()))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	head, err := r.Read()
	if errors.Is(err, io.EOF) {
		return models.RawTable{}, nil
	}
	if err != nil {
		return models.RawTable{}, &models.ParseError{Source: models.SourceTAIFEX, Err: err}
	}
	columns := trimHeader(head)
	if !contains(columns, dateLabel) {
		return models.RawTable{}, &models.ParseError{Source: models.SourceTAIFEX, Err: fmt.Errorf("no %s column in header %q", dateLabel, columns)}
	}

	table := models.RawTable{Columns: columns}
	for {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.RawTable{}, &models.ParseError{Source: models.SourceTAIFEX, Err: err}
		}
		if blank(cells) {
			continue
		}
		row := make(models.Row, len(columns))
		for i, label := range columns {
			if i < len(cells) {
				row[label] = strings.TrimSpace(cells[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}
	if table.Empty() {
		return table, models.ErrNoData
	}
	return table, nil
}

// trimHeader strips labels and drops the empty ones left by trailing commas.
func trimHeader(head []string) []string {
	out := make([]string, len(head))
	for i, h := range head {
		out[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func (s *Source) Columns() models.ColumnMap {
	return models.ColumnMap{
		Source: models.SourceTAIFEX,
		Strict: true,
		Labels: map[string]string{
			"交易日期":       "Date",
			"契約":         "FuturesID",
			"到期月份(週別)":   "ContractDate",
			"開盤價":        "Open",
			"最高價":        "Max",
			"最低價":        "Min",
			"收盤價":        "Close",
			"漲跌價":        "Change",
			"漲跌%":        "ChangePer",
			"成交量":        "Volume",
			"結算價":        "SettlementPrice",
			"未沖銷契約數":     "OpenInterest",
			"交易時段":       "TradingSession",
			"最後最佳買價":     models.DropColumn,
			"最後最佳賣價":     models.DropColumn,
			"歷史最高價":      models.DropColumn,
			"歷史最低價":      models.DropColumn,
			"是否因訊息面暫停交易": models.DropColumn,
			"價差對單式委託成交量": models.DropColumn,
		},
	}
}

func (s *Source) Rules() models.CoerceRules {
	return models.CoerceRules{
		Numeric: []string{"Open", "Max", "Min", "Close", "Change", "Volume", "SettlementPrice", "OpenInterest"},
		Percent: []string{"ChangePer"},
		Dates:   []string{"Date"},
		Compact: []string{"ContractDate"},
		Text:    []string{"FuturesID"},
		Session: "TradingSession",
	}
}
