package di

import (
	"context"
	"fmt"
	"time"

	"FinCrawl/internal/domain/models"
	"FinCrawl/internal/domain/repository"
	"FinCrawl/internal/handler/api"
	internalrepo "FinCrawl/internal/repository"
	"FinCrawl/internal/service/ratelimit"
	"FinCrawl/internal/service/taifex"
	"FinCrawl/internal/service/tpex"
	"FinCrawl/internal/service/twse"
	"FinCrawl/internal/services/dataset"
	"FinCrawl/internal/usecase"
	"FinCrawl/pkg/cache"
	pkgch "FinCrawl/pkg/clickhouse"
	"FinCrawl/pkg/config"
	xhttp "FinCrawl/pkg/http"
	pkgkafka "FinCrawl/pkg/kafka"
	"FinCrawl/pkg/logger"
	"FinCrawl/pkg/metrics"
	"FinCrawl/pkg/server"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(logger.String("env", cfg.Environment)), nil
}

// ProvideTransport creates the outbound HTTP client shared by all sources.
func ProvideTransport(cfg *config.Config) repository.Transport {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.Crawler.RequestTimeout))
}

// ProvideSources registers every known upstream by its id.
func ProvideSources() map[models.SourceID]repository.Source {
	registry := make(map[models.SourceID]repository.Source, 3)
	for _, s := range []repository.Source{twse.New(), tpex.New(), taifex.New()} {
		registry[s.ID()] = s
	}
	return registry
}

func ProvideValidator() *dataset.Validator {
	return dataset.NewValidator(dataset.DefaultSchemas())
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

func ProvidePacer(cfg *config.Config) repository.Pacer {
	return ratelimit.New(cfg.Crawler.Pacing)
}

// ProvideSink opens the storage backend named by backend.type.
func ProvideSink(cfg *config.Config, log *logger.Logger) (repository.Sink, func(), error) {
	var (
		sink repository.Sink
		err  error
	)
	switch cfg.Backend.Type {
	case "clickhouse":
		sink, err = provideClickHouseSink(cfg)
	case "kafka":
		sink, err = provideKafkaSink(cfg)
	default:
		sink, err = internalrepo.NewCSVSink(cfg.Backend.CSVDir)
	}
	if err != nil {
		return nil, nil, err
	}

	log.Info("sink ready", logger.String("backend", cfg.Backend.Type))
	cleanup := func() {
		if err := sink.Close(); err != nil {
			log.Warn("sink close error", logger.Error(err))
		}
	}
	return sink, cleanup, nil
}

func provideClickHouseSink(cfg *config.Config) (repository.Sink, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sink := internalrepo.NewClickHouseSink(client)
	if err := client.InitSchema(ctx, sink.SchemaStatements()); err != nil {
		_ = sink.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return sink, nil
}

func provideKafkaSink(cfg *config.Config) (repository.Sink, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaSink(producer, cfg.Kafka.Topic), nil
}

// ProvideCheckpoint returns a no-op checkpoint unless checkpointing is enabled.
func ProvideCheckpoint(cfg *config.Config, log *logger.Logger) (repository.Checkpoint, func(), error) {
	if !cfg.Checkpoint.Enabled {
		return internalrepo.NoCheckpoint{}, func() {}, nil
	}

	var store cache.Service
	switch cfg.Checkpoint.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Checkpoint.Addr),
			cache.WithRedisAuth(cfg.Checkpoint.Password, cfg.Checkpoint.DB),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("checkpoint redis: %w", err)
		}
		store = rc
	default:
		store = cache.NewMemoryCache()
	}

	log.Info("checkpoint enabled", logger.String("backend", cfg.Checkpoint.Backend))
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.Warn("checkpoint close error", logger.Error(err))
		}
	}
	return internalrepo.NewCacheCheckpoint(store, cfg.Checkpoint.TTL), cleanup, nil
}

// ProvideRunner creates the background runner and stops it on cleanup.
func ProvideRunner(pipeline *usecase.CrawlPipeline, log *logger.Logger) (*usecase.CrawlRunner, func()) {
	r := usecase.NewCrawlRunner(pipeline, log)
	return r, r.Close
}

// ProvideHandler creates the HTTP control plane routes.
func ProvideHandler(log *logger.Logger, runner *usecase.CrawlRunner) xhttp.Handler {
	return api.NewCrawlEchoHandler(log, runner)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	pipeline *usecase.CrawlPipeline,
	runner *usecase.CrawlRunner,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, pipeline, runner, handler)
}
