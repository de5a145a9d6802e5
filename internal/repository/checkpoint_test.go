package repository

import (
	"context"
	"testing"
	"time"

	"FinCrawl/internal/domain/models"
	"FinCrawl/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheCheckpoint(t *testing.T) {
	mc := cache.NewMemoryCache()
	defer mc.Close()
	cp := NewCacheCheckpoint(mc, time.Hour)
	ctx := context.Background()

	task := models.FetchTask{Date: "2021-07-01", Source: models.SourceTWSE}
	done, err := cp.Done(ctx, task)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, cp.Mark(ctx, task))
	done, err = cp.Done(ctx, task)
	require.NoError(t, err)
	assert.True(t, done)

	other := models.FetchTask{Date: "2021-07-01", Source: models.SourceTPEX}
	done, err = cp.Done(ctx, other)
	require.NoError(t, err)
	assert.False(t, done)
}
