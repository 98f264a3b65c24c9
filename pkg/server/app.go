package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mid "TradeSentry/internal/middleware"
	"TradeSentry/internal/usecase"
	pkgch "TradeSentry/pkg/clickhouse"
	"TradeSentry/pkg/config"
	xhttp "TradeSentry/pkg/http"
	pkgkafka "TradeSentry/pkg/kafka"
	applogger "TradeSentry/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	pipeline   *mid.ReportPipeline     // nil when the report sink is off
	recorder   *usecase.ReportRecorder // nil when the report sink is off
	producer   *pkgkafka.Producer      // nil without kafka
	chClient   *pkgch.Client           // nil without clickhouse
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	pipeline *mid.ReportPipeline,
	recorder *usecase.ReportRecorder,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		httpServer: httpServer,
		pipeline:   pipeline,
		recorder:   recorder,
		producer:   producer,
		chClient:   chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if a.pipeline != nil {
		// stopped explicitly during shutdown so queued reports drain
		a.pipeline.Start(context.Background())
		a.log.Info("report pipeline started", applogger.String("backend", a.recorder.Backend()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		a.shutdown()
		return err
	}
	a.log.Info("tradesentry started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Bool("inference", a.cfg.Inference.URL != ""),
		applogger.Bool("llm", a.cfg.LLM.APIKey != ""))

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	a.shutdown()
	return nil
}

// shutdown gracefully stops all services.
func (a *App) shutdown() {
	a.log.Info("shutting down...")

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	// Drain queued reports before closing their sink
	if a.pipeline != nil {
		a.pipeline.Stop()
	}

	// Flush aggregated logs while the producer is still open
	a.log.RemoveCollector()

	if a.recorder != nil {
		a.recorder.Close()
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
}
