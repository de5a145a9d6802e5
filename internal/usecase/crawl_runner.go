package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"FinCrawl/internal/domain/models"
	"FinCrawl/pkg/logger"
)

// ErrBusy is returned by CrawlRunner.Start while a run is in flight.
var ErrBusy = errors.New("a crawl is already running")

// RunStatus describes the current or last background run.
type RunStatus struct {
	Running    bool              `json:"running"`
	Start      string            `json:"start_date,omitempty"`
	End        string            `json:"end_date,omitempty"`
	Sources    []models.SourceID `json:"sources,omitempty"`
	StartedAt  time.Time         `json:"started_at,omitempty"`
	FinishedAt time.Time         `json:"finished_at,omitempty"`
	Summary    RunSummary        `json:"summary"`
	Failures   []TaskFailure     `json:"failures,omitempty"`
	Error      string            `json:"error,omitempty"`
	report     *models.RunReport
}

// RunSummary holds the RunReport counters.
type RunSummary struct {
	Tasks     int `json:"tasks"`
	Validated int `json:"validated"`
	Empty     int `json:"empty"`
	Failed    int `json:"failed"`
	Records   int `json:"records"`
}

// TaskFailure is one failed task of a report.
type TaskFailure struct {
	Task  string `json:"task"`
	Error string `json:"error"`
}

// CrawlRunner runs at most one pipeline run at a time in the background.
type CrawlRunner struct {
	pipeline *CrawlPipeline
	log      *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	status RunStatus
}

func NewCrawlRunner(pipeline *CrawlPipeline, log *logger.Logger) *CrawlRunner {
	ctx, cancel := context.WithCancel(context.Background())
	return &CrawlRunner{pipeline: pipeline, log: log, ctx: ctx, cancel: cancel}
}

// Start launches a run and returns immediately, or ErrBusy.
func (r *CrawlRunner) Start(start, end string, sources []models.SourceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Running {
		return ErrBusy
	}
	r.status = RunStatus{
		Running:   true,
		Start:     start,
		End:       end,
		Sources:   sources,
		StartedAt: time.Now().UTC(),
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		report, err := r.pipeline.Run(r.ctx, start, end, sources)
		r.finish(report, err)
	}()
	return nil
}

func (r *CrawlRunner) finish(report models.RunReport, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.Running = false
	r.status.FinishedAt = time.Now().UTC()
	r.status.report = &report
	r.status.Summary = RunSummary{
		Tasks:     len(report.Outcomes),
		Validated: report.Validated,
		Empty:     report.Empty,
		Failed:    report.Failed,
		Records:   report.Records,
	}
	r.status.Failures = nil
	for _, o := range report.Outcomes {
		if o.Kind == models.OutcomeFailed && o.Err != nil {
			r.status.Failures = append(r.status.Failures, TaskFailure{Task: o.Task.String(), Error: o.Err.Error()})
		}
	}
	if err != nil {
		r.status.Error = err.Error()
		r.log.Error("background crawl ended with error", logger.Error(err))
	}
}

// Status returns a copy of the current status.
func (r *CrawlRunner) Status() RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Report returns the full report of the last finished run.
func (r *CrawlRunner) Report() (models.RunReport, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.report == nil {
		return models.RunReport{}, false
	}
	return *r.status.report, true
}

// Health checks the pipeline's sink.
func (r *CrawlRunner) Health(ctx context.Context) error {
	return r.pipeline.Health(ctx)
}

// Wait blocks until the in-flight run, if any, returns.
func (r *CrawlRunner) Wait() {
	r.wg.Wait()
}

// Close cancels an in-flight run and waits for it.
func (r *CrawlRunner) Close() {
	r.cancel()
	r.wg.Wait()
}
