package transform

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinCrawl/internal/domain/models"
)

func TestExpandDatesInclusive(t *testing.T) {
	dates, err := ExpandDates("2021-01-01", "2021-01-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"2021-01-01", "2021-01-02", "2021-01-03", "2021-01-04", "2021-01-05"}, dates)
}

func TestExpandDatesProperties(t *testing.T) {
	pairs := [][2]string{
		{"2021-01-05", "2021-01-05"},
		{"2020-02-27", "2020-03-02"},
		{"2008-12-30", "2009-01-02"},
		{"2021-03-27", "2021-03-29"},
	}
	for _, p := range pairs {
		dates, err := ExpandDates(p[0], p[1])
		require.NoError(t, err)

		a, _ := time.Parse("2006-01-02", p[0])
		b, _ := time.Parse("2006-01-02", p[1])
		assert.Len(t, dates, int(b.Sub(a).Hours()/24)+1)
		assert.Equal(t, p[0], dates[0])
		assert.Equal(t, p[1], dates[len(dates)-1])
		for i := 1; i < len(dates); i++ {
			assert.Less(t, dates[i-1], dates[i])
		}
	}
}

func TestExpandDatesInvalid(t *testing.T) {
	for _, p := range [][2]string{
		{"2021-01-05", "2021-01-01"},
		{"2021/01/01", "2021-01-05"},
		{"2021-01-01", "not-a-date"},
		{"2021-02-30", "2021-03-01"},
	} {
		_, err := ExpandDates(p[0], p[1])
		var rangeErr *models.InvalidRangeError
		require.True(t, errors.As(err, &rangeErr), "%v should be InvalidRangeError", p)
		assert.True(t, models.IsFatal(err))
	}
}
