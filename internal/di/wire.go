//go:build wireinject
// +build wireinject

package di

import (
	"FinCrawl/internal/usecase"
	"FinCrawl/pkg/config"
	"FinCrawl/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,

		// Upstreams
		ProvideTransport,
		ProvideSources,
		ProvidePacer,

		// Storage
		ProvideSink,
		ProvideCheckpoint,

		ProvideValidator,
		ProvideMetrics,

		// Use cases
		usecase.NewCrawlPipeline,
		ProvideRunner,

		// Application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil, nil
}
