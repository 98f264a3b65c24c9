//go:build wireinject
// +build wireinject

package di

import (
	"TradeSentry/internal/domain/repository"
	"TradeSentry/internal/service/yahoo"
	"TradeSentry/pkg/config"
	"TradeSentry/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,
		ProvideHandlerMetrics,

		// Upstream adapters
		ProvideYahooClient,
		wire.Bind(new(repository.MarketData), new(*yahoo.Client)),
		wire.Bind(new(repository.NewsSource), new(*yahoo.Client)),
		ProvideInferenceBase,
		ProvideTrendScorer,
		ProvideSentimentScorer,
		ProvideAnalyst,

		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideClickHouseClient,

		// Report sink
		ProvideReportRecorder,
		ProvideReportPipeline,
		ProvideReportQueue,

		// Use cases
		ProvidePivotUseCase,
		ProvideChartUseCase,
		ProvideSignalGateway,
		ProvideAnalysisUseCase,
		ProvideChatUseCase,
		ProvideLivePoller,

		// HTTP
		ProvideCache,
		ProvideRateLimiter,
		ProvideAPIHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
