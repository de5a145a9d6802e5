package server

import (
	"context"
	"errors"
	"fmt"

	"FinCrawl/internal/domain/models"
	"FinCrawl/internal/usecase"
	"FinCrawl/pkg/config"
	xhttp "FinCrawl/pkg/http"
	applogger "FinCrawl/pkg/logger"
)

// App encapsulates the application lifecycle for both the one-shot crawl
// and the long-running control plane.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	pipeline    *usecase.CrawlPipeline
	runner      *usecase.CrawlRunner
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	pipeline *usecase.CrawlPipeline,
	runner *usecase.CrawlRunner,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		pipeline:    pipeline,
		runner:      runner,
		httpHandler: handler,
	}
}

func (a *App) Logger() *applogger.Logger { return a.log }

// Crawl runs one date range in the foreground. An empty source list falls
// back to crawler.sources from the config.
func (a *App) Crawl(ctx context.Context, start, end string, sources []models.SourceID) (models.RunReport, error) {
	if len(sources) == 0 {
		for _, s := range a.cfg.Crawler.Sources {
			sources = append(sources, models.SourceID(s))
		}
	}

	report, err := a.pipeline.Run(ctx, start, end, sources)
	for _, o := range report.Outcomes {
		if o.Kind == models.OutcomeFailed {
			a.log.Warn("task failed", applogger.String("task", o.Task.String()), applogger.Error(o.Err))
		}
	}
	if err != nil {
		return report, fmt.Errorf("crawl %s..%s: %w", start, end, err)
	}
	return report, nil
}

// Serve runs the HTTP control plane until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	a.httpServer = xhttp.NewServer(a.httpHandler, a.log,
		xhttp.WithHost(a.cfg.Server.Host),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the HTTP server and any in-flight crawl.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}

	a.runner.Close()

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
