package repository

import (
	"context"
	"fmt"
	"time"

	"FinCrawl/internal/domain/models"
	"FinCrawl/internal/domain/repository"
	"FinCrawl/pkg/cache"
)

const checkpointPrefix = "checkpoint"

// CacheCheckpoint stores finished tasks in a cache.Service (Redis or memory).
type CacheCheckpoint struct {
	cache cache.Service
	ttl   time.Duration
}

func NewCacheCheckpoint(c cache.Service, ttl time.Duration) repository.Checkpoint {
	return &CacheCheckpoint{cache: c, ttl: ttl}
}

func checkpointKey(task models.FetchTask) string {
	return cache.GenerateKey(checkpointPrefix, task.Source, task.Date)
}

func (c *CacheCheckpoint) Done(ctx context.Context, task models.FetchTask) (bool, error) {
	ok, err := c.cache.Exists(ctx, checkpointKey(task))
	if err != nil {
		return false, fmt.Errorf("checkpoint lookup %s: %w", task, err)
	}
	return ok, nil
}

func (c *CacheCheckpoint) Mark(ctx context.Context, task models.FetchTask) error {
	if err := c.cache.Set(ctx, checkpointKey(task), time.Now().UTC().Format(time.RFC3339), c.ttl); err != nil {
		return fmt.Errorf("checkpoint mark %s: %w", task, err)
	}
	return nil
}

// NoCheckpoint never skips and never records.
type NoCheckpoint struct{}

func (NoCheckpoint) Done(context.Context, models.FetchTask) (bool, error) { return false, nil }

func (NoCheckpoint) Mark(context.Context, models.FetchTask) error { return nil }
