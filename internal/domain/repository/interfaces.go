package repository

import (
	"context"

	"FinCrawl/internal/domain/models"
)

// Transport is the outbound HTTP collaborator. Any non-2xx status is reported
// through the status code, not as an error.
type Transport interface {
	Get(ctx context.Context, url string, headers map[string]string) (int, []byte, error)
	Post(ctx context.Context, url string, headers map[string]string, form map[string]string) (int, []byte, error)
}

// Source is one upstream exchange: how to ask for a day and how to read the answer.
type Source interface {
	ID() models.SourceID
	Dataset() string
	Fetch(ctx context.Context, t Transport, date string) (int, []byte, error)
	// Parse returns models.ErrNoData when the source explicitly reports no
	// trading. Any other empty table is an answer to retry later.
	Parse(body []byte, date string) (models.RawTable, error)
	Columns() models.ColumnMap
	Rules() models.CoerceRules
}

// Sink persists validated batches keyed by (Date, ID).
type Sink interface {
	StoreBatch(ctx context.Context, dataset string, records []models.Record) error
	Health(ctx context.Context) error
	Close() error
}

// Checkpoint remembers finished tasks so reruns can skip them.
type Checkpoint interface {
	Done(ctx context.Context, task models.FetchTask) (bool, error)
	Mark(ctx context.Context, task models.FetchTask) error
}

type Metrics interface {
	RecordTask(source, outcome string)
	RecordRows(source string, kept, dropped int)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}

// Pacer enforces the minimum delay between origin requests.
type Pacer interface {
	Wait(ctx context.Context) error
}
