package di

import (
	"context"
	"fmt"
	"net"
	"time"

	"TradeSentry/internal/domain/repository"
	domsvc "TradeSentry/internal/domain/service"
	"TradeSentry/internal/handler/api"
	mid "TradeSentry/internal/middleware"
	internalrepo "TradeSentry/internal/repository"
	icache "TradeSentry/internal/service/cache"
	svcmetrics "TradeSentry/internal/service/metrics"
	"TradeSentry/internal/service/ratelimit"
	"TradeSentry/internal/service/yahoo"
	"TradeSentry/internal/services/analytics"
	"TradeSentry/internal/services/llm"
	"TradeSentry/internal/usecase"
	pkgch "TradeSentry/pkg/clickhouse"
	"TradeSentry/pkg/config"
	xhttp "TradeSentry/pkg/http"
	pkgkafka "TradeSentry/pkg/kafka"
	applogger "TradeSentry/pkg/logger"
	"TradeSentry/pkg/metrics"
	"TradeSentry/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideRegistry creates the Prometheus registry served on /metrics.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.NewWithRegistry(reg)
}

func ProvideHandlerMetrics(reg *prometheus.Registry) *svcmetrics.HandlerMetrics {
	return svcmetrics.NewHandlerMetrics(reg)
}

// ProvideYahooClient creates the market data and news adapter.
func ProvideYahooClient(cfg *config.Config, log *applogger.Logger, m repository.Metrics) *yahoo.Client {
	return yahoo.New(cfg.Provider.BaseURL, cfg.Provider.Timeout, log,
		yahoo.WithUserAgent(cfg.Provider.UserAgent),
		yahoo.WithMetrics(m),
	)
}

// ProvideInferenceBase creates the shared inference HTTP base.
func ProvideInferenceBase(cfg *config.Config) *analytics.HTTPServiceBase {
	return analytics.NewHTTPServiceBase(cfg)
}

func ProvideTrendScorer(base *analytics.HTTPServiceBase) domsvc.TrendScorer {
	return analytics.NewHTTPTrendScorer(base)
}

func ProvideSentimentScorer(base *analytics.HTTPServiceBase) domsvc.SentimentScorer {
	return analytics.NewHTTPSentimentScorer(base)
}

// ProvideAnalyst creates the verdict and chat collaborator.
func ProvideAnalyst(cfg *config.Config) *llm.Analyst {
	return llm.NewAnalyst(llm.NewClient(cfg))
}

func ProvidePivotUseCase(md repository.MarketData, m repository.Metrics, log *applogger.Logger, cfg *config.Config) *usecase.PivotUseCase {
	return usecase.NewPivotUseCase(md, m, log,
		repository.Period(cfg.Pivots.Period),
		repository.Interval(cfg.Pivots.Interval))
}

func ProvideChartUseCase(md repository.MarketData, log *applogger.Logger, cfg *config.Config) *usecase.ChartUseCase {
	tfs := make([]repository.Timeframe, 0, len(cfg.Charts))
	for _, c := range cfg.Charts {
		tfs = append(tfs, repository.Timeframe{
			Label:         c.Label,
			Period:        repository.Period(c.Period),
			Interval:      repository.Interval(c.Interval),
			SessionFilter: c.SessionFilter,
		})
	}
	return usecase.NewChartUseCase(md, log, tfs)
}

func ProvideSignalGateway(
	base *analytics.HTTPServiceBase,
	trend domsvc.TrendScorer,
	sentiment domsvc.SentimentScorer,
	news repository.NewsSource,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.SignalGateway {
	return usecase.NewSignalGateway(trend, sentiment, news, m, log, usecase.GatewayConfig{
		Enabled:   base.Configured(),
		Lookback:  cfg.Inference.Lookback,
		RSIPeriod: cfg.Inference.RSIPeriod,
		Headlines: cfg.Inference.Headlines,
	})
}

func ProvideChatUseCase(analyst *llm.Analyst, m repository.Metrics, log *applogger.Logger) *usecase.ChatUseCase {
	return usecase.NewChatUseCase(analyst, m, log)
}

func ProvideLivePoller(pivots *usecase.PivotUseCase, m repository.Metrics, log *applogger.Logger, cfg *config.Config) *usecase.LivePoller {
	return usecase.NewLivePoller(pivots, m, log, cfg.Live.Interval)
}

// ProvideKafkaProducer creates a Kafka producer when the report sink or the
// log collector needs one; otherwise it returns nil.
func ProvideKafkaProducer(cfg *config.Config, reg *prometheus.Registry) (*pkgkafka.Producer, error) {
	needed := cfg.Sink.Backend == usecase.BackendKafka ||
		(cfg.Logging.Collector.Enabled && len(cfg.Kafka.Brokers) > 0)
	if !needed {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithAutoCreateTopic(cfg.Environment == "development"),
		pkgkafka.WithRegisterer(reg),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideClickHouseClient creates a ClickHouse client when it is the report
// sink; otherwise it returns nil.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Sink.Backend != usecase.BackendClickHouse {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, "CREATE DATABASE IF NOT EXISTS "+client.Database()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideReportRecorder routes reports to the configured sink. It returns
// nil when the sink is off.
func ProvideReportRecorder(
	cfg *config.Config,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	m repository.Metrics,
) (*usecase.ReportRecorder, error) {
	switch cfg.Sink.Backend {
	case usecase.BackendKafka:
		pub := internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.Topic)
		return usecase.NewReportRecorder(pub, nil, m, usecase.BackendKafka), nil
	case usecase.BackendClickHouse:
		store := internalrepo.NewClickHouseReportStorage(chClient.DB(), chClient.Database()+"."+internalrepo.ReportsTable)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Init(ctx); err != nil {
			return nil, fmt.Errorf("report table: %w", err)
		}
		return usecase.NewReportRecorder(nil, store, m, usecase.BackendClickHouse), nil
	default:
		return nil, nil
	}
}

// ProvideReportPipeline buffers reports in front of the recorder.
func ProvideReportPipeline(rec *usecase.ReportRecorder, m repository.Metrics, cfg *config.Config) *mid.ReportPipeline {
	if rec == nil {
		return nil
	}
	return mid.NewReportPipeline(rec, m,
		mid.WithBufferSize(cfg.Sink.BufferSize),
		mid.WithBatch(cfg.Sink.BatchSize, cfg.Sink.BatchTimeout),
	)
}

// ProvideReportQueue exposes the pipeline to the orchestrator. A nil
// pipeline must become a nil interface, not a typed nil.
func ProvideReportQueue(p *mid.ReportPipeline) usecase.ReportQueue {
	if p == nil {
		return nil
	}
	return p
}

func ProvideAnalysisUseCase(
	pivots *usecase.PivotUseCase,
	charts *usecase.ChartUseCase,
	signals *usecase.SignalGateway,
	analyst *llm.Analyst,
	reports usecase.ReportQueue,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(pivots, charts, signals, analyst, reports, m, log, cfg.Inference.Window)
}

// ProvideCache fronts Redis with a memory layer when enabled, else uses an
// in-process TTL cache.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		redis := icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		return icache.NewLayeredCache(redis, 0)
	}
	return icache.NewTTLCache()
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(float64(cfg.RateLimit.Capacity), float64(cfg.RateLimit.RefillPerSec))
}

func ProvideAPIHandler(
	log *applogger.Logger,
	analysis *usecase.AnalysisUseCase,
	chat *usecase.ChatUseCase,
	live *usecase.LivePoller,
	cache icache.BytesCache,
	limiter *ratelimit.Limiter,
	hm *svcmetrics.HandlerMetrics,
	cfg *config.Config,
) *api.AnalysisHandler {
	return api.NewAnalysisHandler(log, analysis, chat, live,
		api.WithCache(cache, cfg.Cache.AnalysisTTL),
		api.WithRateLimiter(limiter),
		api.WithMetrics(hm),
		api.WithWriteTimeout(cfg.Live.WriteTimeout),
	)
}

// ProvideHTTPServer creates the echo server with routes and metrics.
func ProvideHTTPServer(h *api.AnalysisHandler, log *applogger.Logger, reg *prometheus.Registry, cfg *config.Config) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(reg, cfg.Metrics.Path, cfg.Server.SlowRequestThreshold))
	}
	for _, cidr := range cfg.Server.TrustedProxies {
		// validated by config.Validate
		if _, n, err := net.ParseCIDR(cidr); err == nil {
			opts = append(opts, xhttp.WithTrustedProxies(n))
		}
	}
	return xhttp.NewServer(h, log, opts...)
}

// ProvideApp creates the application server and attaches the log collector.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	srv *xhttp.Server,
	pipeline *mid.ReportPipeline,
	rec *usecase.ReportRecorder,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
) *server.App {
	if cfg.Logging.Collector.Enabled && producer != nil {
		log.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Collector.Interval,
			CountThreshold: cfg.Logging.Collector.Threshold,
			Topic:          cfg.Logging.Collector.Topic,
			Publisher:      producer,
		})
	}
	return server.New(cfg, log, srv, pipeline, rec, producer, chClient)
}
