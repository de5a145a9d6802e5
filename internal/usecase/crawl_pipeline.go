package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FinCrawl/internal/domain/models"
	drepo "FinCrawl/internal/domain/repository"
	"FinCrawl/internal/services/dataset"
	"FinCrawl/internal/services/transform"
	"FinCrawl/pkg/logger"
	"FinCrawl/pkg/util"
)

// CrawlPipeline runs fetch tasks one at a time: fetch, parse, normalize,
// coerce, validate and hand the batch to the sink.
type CrawlPipeline struct {
	sources    map[models.SourceID]drepo.Source
	transport  drepo.Transport
	validator  *dataset.Validator
	sink       drepo.Sink
	checkpoint drepo.Checkpoint
	metrics    drepo.Metrics
	pacer      drepo.Pacer
	log        *logger.Logger
	now        func() time.Time
}

// exchangeTZ is the exchanges' local time; a day is only final once it is over there.
var exchangeTZ = time.FixedZone("Asia/Taipei", 8*60*60)

func NewCrawlPipeline(
	sources map[models.SourceID]drepo.Source,
	transport drepo.Transport,
	validator *dataset.Validator,
	sink drepo.Sink,
	checkpoint drepo.Checkpoint,
	metrics drepo.Metrics,
	pacer drepo.Pacer,
	log *logger.Logger,
) *CrawlPipeline {
	return &CrawlPipeline{
		sources:    sources,
		transport:  transport,
		validator:  validator,
		sink:       sink,
		checkpoint: checkpoint,
		metrics:    metrics,
		pacer:      pacer,
		log:        log,
		now:        time.Now,
	}
}

// Run crawls every source for every day in [start, end]. Per-task failures
// are reported in the RunReport; only an invalid range, an unknown source,
// an unknown futures column or cancellation end the run with an error.
func (p *CrawlPipeline) Run(ctx context.Context, start, end string, sources []models.SourceID) (models.RunReport, error) {
	var report models.RunReport

	dates, err := transform.ExpandDates(start, end)
	if err != nil {
		return report, err
	}
	if len(sources) == 0 {
		return report, fmt.Errorf("no sources requested")
	}
	for _, s := range sources {
		if _, ok := p.sources[s]; !ok {
			return report, fmt.Errorf("source %q is not registered", s)
		}
	}

	tasks := transform.GenerateTasks(dates, sources)
	p.log.Info("crawl started",
		logger.String("start", start),
		logger.String("end", end),
		logger.Int("tasks", len(tasks)),
	)
	runStart := time.Now()

	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		outcome := p.RunTask(ctx, task)
		report.Add(outcome)
		if outcome.Err != nil && models.IsFatal(outcome.Err) {
			p.log.Error("crawl aborted", logger.String("task", task.String()), logger.Error(outcome.Err))
			return report, outcome.Err
		}
		if errors.Is(outcome.Err, context.Canceled) || errors.Is(outcome.Err, context.DeadlineExceeded) {
			return report, outcome.Err
		}
	}

	p.log.Info("crawl finished",
		logger.Int("validated", report.Validated),
		logger.Int("empty", report.Empty),
		logger.Int("failed", report.Failed),
		logger.Int("records", report.Records),
		logger.Duration("duration_ms", time.Since(runStart)),
	)
	return report, nil
}

// RunTask drives one task to a terminal state. It never panics on upstream
// data; every path ends in an Empty, Validated or Failed outcome.
func (p *CrawlPipeline) RunTask(ctx context.Context, task models.FetchTask) models.TaskOutcome {
	log := p.log.With(logger.String("source", string(task.Source)), logger.String("date", task.Date))
	outcome := models.TaskOutcome{Task: task, State: models.StatePending}

	src, ok := p.sources[task.Source]
	if !ok {
		return p.fail(log, outcome, "config", fmt.Errorf("source %q is not registered", task.Source))
	}

	if done, err := p.checkpoint.Done(ctx, task); err != nil {
		log.Warn("checkpoint lookup failed", logger.Error(err))
	} else if done {
		outcome.Kind, outcome.State = models.OutcomeEmpty, models.StateSkipped
		log.Debug("task skipped, already crawled")
		p.metrics.RecordTask(string(task.Source), "skipped")
		return outcome
	}

	if err := p.pacer.Wait(ctx); err != nil {
		return p.fail(log, outcome, "cancelled", err)
	}

	fetchStart := time.Now()
	status, body, err := src.Fetch(ctx, p.transport, task.Date)
	p.metrics.RecordLatency("fetch", time.Since(fetchStart).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return p.fail(log, outcome, "cancelled", ctx.Err())
		}
		return p.fail(log, outcome, "transport", &models.TransportError{Task: task, Err: err})
	}
	outcome.State = models.StateFetched

	if status < 200 || status >= 300 {
		log.Warn("non-success status, treating as no data", logger.Int("status", status))
		return p.empty(ctx, log, outcome, false)
	}
	if len(body) == 0 {
		return p.empty(ctx, log, outcome, false)
	}

	raw, err := src.Parse(body, task.Date)
	if errors.Is(err, models.ErrNoData) {
		outcome.State = models.StateParsed
		return p.empty(ctx, log, outcome, true)
	}
	if err != nil {
		log.Warn("unreadable response, treating as no data", logger.Error(err))
		p.metrics.RecordError("parse")
		outcome.Err = err
		return p.empty(ctx, log, outcome, false)
	}
	outcome.State = models.StateParsed
	if raw.Empty() {
		log.Warn("no rows and no explicit no-data answer")
		return p.empty(ctx, log, outcome, false)
	}

	table, err := transform.Normalize(raw, src.Columns())
	if err != nil {
		return p.fail(log, outcome, "schema_drift", err)
	}
	if !table.Has("Date") {
		table.SetColumn("Date", task.Date)
	}
	outcome.State = models.StateNormalized

	table = transform.NewCoercer(src.Rules()).Coerce(table)
	outcome.State = models.StateCoerced

	records, rejected, err := p.validator.Validate(src.Dataset(), table)
	if err != nil {
		return p.fail(log, outcome, "config", err)
	}
	outcome.State = models.StateValidated
	outcome.Records = records
	outcome.Dropped = len(rejected)
	p.metrics.RecordRows(string(task.Source), len(records), len(rejected))
	if len(rejected) > 0 {
		log.Warn("rows rejected by schema",
			logger.Int("rejected", len(rejected)),
			logger.Int("kept", len(records)),
			logger.Error(rejected[0]),
		)
	}

	storeStart := time.Now()
	if err := p.sink.StoreBatch(ctx, src.Dataset(), records); err != nil {
		outcome.Records = nil
		return p.fail(log, outcome, "sink", fmt.Errorf("store %s: %w", task, err))
	}
	p.metrics.RecordLatency("store", time.Since(storeStart).Seconds())
	outcome.State = models.StateEmitted
	outcome.Kind = models.OutcomeValidated

	p.mark(ctx, log, task)
	p.metrics.RecordTask(string(task.Source), outcome.Kind.String())
	log.Info("task emitted", logger.Int("records", len(records)))
	return outcome
}

// empty ends a task without records. Only an explicit "no trading" answer is
// checkpointed; odd statuses, unreadable bodies and empty answers without a
// no-data marker are retried on the next run.
func (p *CrawlPipeline) empty(ctx context.Context, log *logger.Logger, outcome models.TaskOutcome, final bool) models.TaskOutcome {
	outcome.Kind, outcome.State = models.OutcomeEmpty, models.StateEmpty
	if final {
		p.mark(ctx, log, outcome.Task)
	}
	p.metrics.RecordTask(string(outcome.Task.Source), outcome.Kind.String())
	log.Info("no data for task")
	return outcome
}

func (p *CrawlPipeline) fail(log *logger.Logger, outcome models.TaskOutcome, kind string, err error) models.TaskOutcome {
	outcome.Kind, outcome.State, outcome.Err = models.OutcomeFailed, models.StateFailed, err
	p.metrics.RecordError(kind)
	p.metrics.RecordTask(string(outcome.Task.Source), outcome.Kind.String())
	log.Error("task failed", logger.String("kind", kind), logger.Error(err))
	return outcome
}

// mark checkpoints task unless its day is not over yet at the exchange.
func (p *CrawlPipeline) mark(ctx context.Context, log *logger.Logger, task models.FetchTask) {
	if today := p.now().In(exchangeTZ).Format(util.DateFormat); task.Date >= today {
		log.Debug("day not settled, checkpoint skipped")
		return
	}
	if err := p.checkpoint.Mark(ctx, task); err != nil {
		log.Warn("checkpoint mark failed", logger.Error(err))
	}
}

// Health checks the sink.
func (p *CrawlPipeline) Health(ctx context.Context) error {
	return p.sink.Health(ctx)
}
