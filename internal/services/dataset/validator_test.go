package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinCrawl/internal/domain/models"
)

func stockRow() models.Row {
	return models.Row{
		"StockID":     "0050",
		"Date":        "2021-01-05",
		"TradeVolume": 4962514.0,
		"Transaction": 6179.0,
		"TradeValue":  616480760.0,
		"Open":        124.2,
		"Max":         124.65,
		"Min":         123.75,
		"Close":       124.6,
		"Change":      0.25,
	}
}

func TestBuildStockPriceDefaultsSession(t *testing.T) {
	v := NewValidator(DefaultSchemas())
	rec, err := v.Build(StockPriceSchema(), stockRow())
	require.NoError(t, err)

	price, ok := rec.(*models.TaiwanStockPrice)
	require.True(t, ok)
	assert.Equal(t, "0050", price.StockID)
	assert.Equal(t, 4962514.0, price.TradeVolume)
	assert.Equal(t, models.SessionPosition, price.TradingSession)

	date, id := rec.Key()
	assert.Equal(t, "2021-01-05", date)
	assert.Equal(t, "0050", id)
}

func TestValidateDropsBadRows(t *testing.T) {
	missing := stockRow()
	delete(missing, "StockID")
	garbage := stockRow()
	garbage["Close"] = "abc"
	badDate := stockRow()
	badDate["Date"] = "2021-13-40"
	badSession := stockRow()
	badSession["TradingSession"] = "夜盤"

	table := models.RawTable{Rows: []models.Row{stockRow(), missing, garbage, badDate, badSession}}
	records, rejected, err := NewValidator(DefaultSchemas()).Validate(models.DatasetStockPrice, table)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	require.Len(t, rejected, 4)
	for _, e := range rejected {
		var schemaErr *models.SchemaValidationError
		assert.True(t, errors.As(e, &schemaErr), "%v", e)
	}
}

func TestValidateStringNumbersAreCast(t *testing.T) {
	row := stockRow()
	row["Close"] = "124.60"
	records, rejected, err := NewValidator(DefaultSchemas()).Validate(models.DatasetStockPrice, models.RawTable{Rows: []models.Row{row}})
	require.NoError(t, err)
	assert.Empty(t, rejected)
	assert.Equal(t, 124.6, records[0].(*models.TaiwanStockPrice).Close)
}

func TestValidateUnknownSchema(t *testing.T) {
	_, _, err := NewValidator(DefaultSchemas()).Validate("Nope", models.RawTable{})
	assert.Error(t, err)
}

func TestBuildFuturesAfterMarket(t *testing.T) {
	row := models.Row{
		"FuturesID": "TX", "Date": "2021-01-05", "ContractDate": "202101",
		"Open": 14700.0, "Max": 14800.0, "Min": 14650.0, "Close": 14720.0,
		"Change": 20.0, "ChangePer": 0.14, "Volume": 1000.0,
		"SettlementPrice": 0.0, "OpenInterest": 0.0, "TradingSession": "AfterMarket",
	}
	rec, err := NewValidator(DefaultSchemas()).Build(FuturesDailySchema(), row)
	require.NoError(t, err)
	fut := rec.(*models.TaiwanFuturesDaily)
	assert.Equal(t, models.SessionAfterMarket, fut.TradingSession)
	assert.Equal(t, models.DatasetFuturesDaily, fut.Dataset())
}
