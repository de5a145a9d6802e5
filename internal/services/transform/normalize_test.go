package transform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinCrawl/internal/domain/models"
)

func TestNormalizeDropsUnmapped(t *testing.T) {
	table := models.RawTable{
		Columns: []string{"code", "name", "close"},
		Rows: []models.Row{
			{"code": "0050", "name": "ETF", "close": "124.60"},
			{"code": "0051", "name": "ETF2", "close": "44.64"},
		},
	}
	m := models.ColumnMap{Labels: map[string]string{"code": "StockID", "name": models.DropColumn, "close": "Close"}}

	out, err := Normalize(table, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"StockID", "Close"}, out.Columns)
	assert.Equal(t, []models.Row{
		{"StockID": "0050", "Close": "124.60"},
		{"StockID": "0051", "Close": "44.64"},
	}, out.Rows)
}

func TestNormalizeLenientIgnoresUnknown(t *testing.T) {
	table := models.RawTable{Columns: []string{"0", "1", "2"}, Rows: []models.Row{{"0": "a", "1": "b", "2": "c"}}}
	m := models.ColumnMap{Positional: true, Labels: map[string]string{"0": "StockID", "2": "Close"}}

	out, err := Normalize(table, m)
	require.NoError(t, err)
	assert.Equal(t, models.Row{"StockID": "a", "Close": "c"}, out.Rows[0])
}

func TestNormalizeStrictUnknownColumn(t *testing.T) {
	table := models.RawTable{Columns: []string{"契約", "新欄位"}, Rows: []models.Row{{"契約": "TX", "新欄位": "1"}}}
	m := models.ColumnMap{Source: models.SourceTAIFEX, Strict: true, Labels: map[string]string{"契約": "FuturesID"}}

	_, err := Normalize(table, m)
	var colErr *models.UnknownColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "新欄位", colErr.Column)
	assert.True(t, models.IsFatal(err))
}
