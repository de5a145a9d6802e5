package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"FinCrawl/internal/domain/models"
	"FinCrawl/internal/domain/repository"
	pkgch "FinCrawl/pkg/clickhouse"
	"FinCrawl/pkg/util"
)

// clickhouseTypes maps canonical columns to ClickHouse types. Unlisted columns are Float64.
var clickhouseTypes = map[string]string{
	"StockID":        "String",
	"FuturesID":      "LowCardinality(String)",
	"Date":           "Date",
	"ContractDate":   "String",
	"TradingSession": "LowCardinality(String)",
}

// ClickHouseSink upserts batches into ReplacingMergeTree tables ordered by
// the dataset key, so re-crawled days collapse onto the newest insert.
type ClickHouseSink struct {
	db       *sql.DB
	database string
	conn     io.Closer
}

// NewClickHouseSink creates a sink that owns client and closes it on Close.
// Create the tables with client.InitSchema(ctx, sink.SchemaStatements()).
func NewClickHouseSink(client *pkgch.Client) *ClickHouseSink {
	return newClickHouseSink(client.DB(), client.Database(), client)
}

func newClickHouseSink(db *sql.DB, database string, conn io.Closer) *ClickHouseSink {
	return &ClickHouseSink{db: db, database: database, conn: conn}
}

// SchemaStatements returns the idempotent DDL for every dataset table.
func (s *ClickHouseSink) SchemaStatements() []string {
	stmts := []string{fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", s.database)}
	for _, dataset := range []string{models.DatasetStockPrice, models.DatasetFuturesDaily} {
		t := tables[dataset]
		cols := make([]string, 0, len(t.columns)+1)
		for _, c := range t.columns {
			typ, ok := clickhouseTypes[c]
			if !ok {
				typ = "Float64"
			}
			cols = append(cols, fmt.Sprintf("%s %s", c, typ))
		}
		cols = append(cols, "ingested_at DateTime DEFAULT now()")
		stmts = append(stmts, fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s.%s (%s) ENGINE = ReplacingMergeTree(ingested_at) PARTITION BY toYYYYMM(Date) ORDER BY (%s)",
			s.database, t.name, strings.Join(cols, ", "), strings.Join(t.key, ", ")))
	}
	return stmts
}

func (s *ClickHouseSink) StoreBatch(ctx context.Context, dataset string, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}
	t, err := lookupTable(dataset)
	if err != nil {
		return err
	}

	// Batch insert using VALUES multi-row to reduce round-trips.
	const chunkSize = 2000
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ") + ")"
	for start := 0; start < len(records); start += chunkSize {
		end := start + chunkSize
		if end > len(records) {
			end = len(records)
		}

		values := make([]string, 0, end-start)
		args := make([]any, 0, (end-start)*len(t.columns))
		for _, rec := range records[start:end] {
			row, err := t.values(rec)
			if err != nil {
				return err
			}
			for i, c := range t.columns {
				if c == "Date" {
					d, ok := util.ParseDate(fmt.Sprint(row[i]))
					if !ok {
						return fmt.Errorf("clickhouse %s: bad date %v", t.name, row[i])
					}
					row[i] = d
				}
			}
			values = append(values, placeholder)
			args = append(args, row...)
		}

		q := fmt.Sprintf("INSERT INTO %s.%s (%s) VALUES %s",
			s.database, t.name, strings.Join(t.columns, ", "), strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("clickhouse insert %s: %w", t.name, err)
		}
	}
	return nil
}

func (s *ClickHouseSink) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseSink) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

var _ repository.Sink = (*ClickHouseSink)(nil)
