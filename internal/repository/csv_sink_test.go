package repository

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"FinCrawl/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func stock(id string, closePrice float64) models.Record {
	return &models.TaiwanStockPrice{StockID: id, Date: "2021-07-01", Close: closePrice, Change: -0.5, TradingSession: models.SessionPosition}
}

func TestCSVSinkWritesPrefixedFile(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewCSVSink(dir)
	require.NoError(t, err)

	require.NoError(t, sink.StoreBatch(context.Background(), models.DatasetStockPrice, []models.Record{stock("2330", 598), stock("0050", 140.5)}))

	rows := readCSV(t, filepath.Join(dir, "taiwan_stock_price_2021-07-01.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, tables[models.DatasetStockPrice].columns, rows[0])
	assert.Equal(t, "2330", rows[1][0])
	assert.Equal(t, "598", rows[1][8])
	assert.Equal(t, "-0.5", rows[1][9])
	assert.Equal(t, "Position", rows[1][10])
}

func TestCSVSinkUpsertsByKey(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewCSVSink(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, sink.StoreBatch(ctx, models.DatasetStockPrice, []models.Record{stock("2330", 598)}))
	// a second source for the same day appends, a repeated key replaces
	require.NoError(t, sink.StoreBatch(ctx, models.DatasetStockPrice, []models.Record{stock("6488", 500), stock("2330", 600)}))

	rows := readCSV(t, filepath.Join(dir, "taiwan_stock_price_2021-07-01.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, "2330", rows[1][0])
	assert.Equal(t, "600", rows[1][8])
	assert.Equal(t, "6488", rows[2][0])
}

func TestCSVSinkFuturesKeepsSessions(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewCSVSink(dir)
	require.NoError(t, err)

	recs := []models.Record{
		&models.TaiwanFuturesDaily{FuturesID: "TX", Date: "2021-07-01", ContractDate: "202107", Close: 17711, TradingSession: models.SessionPosition},
		&models.TaiwanFuturesDaily{FuturesID: "TX", Date: "2021-07-01", ContractDate: "202107", Close: 17720, TradingSession: models.SessionAfterMarket},
		&models.TaiwanFuturesDaily{FuturesID: "TX", Date: "2021-07-01", ContractDate: "202108", Close: 17690, TradingSession: models.SessionPosition},
	}
	require.NoError(t, sink.StoreBatch(context.Background(), models.DatasetFuturesDaily, recs))

	rows := readCSV(t, filepath.Join(dir, "taiwan_futures_daily_2021-07-01.csv"))
	assert.Len(t, rows, 4)
}

func TestCSVSinkEmptyBatchWritesNothing(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewCSVSink(dir)
	require.NoError(t, err)

	require.NoError(t, sink.StoreBatch(context.Background(), models.DatasetStockPrice, nil))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCSVSinkRejectsWrongRecordType(t *testing.T) {
	sink, err := NewCSVSink(t.TempDir())
	require.NoError(t, err)
	err = sink.StoreBatch(context.Background(), models.DatasetFuturesDaily, []models.Record{stock("2330", 1)})
	require.Error(t, err)
}
