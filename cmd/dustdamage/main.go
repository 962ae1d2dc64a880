// Command dustdamage serves dust-emission damage assessments over HTTP and,
// when KAFKA_ENABLED, computes requests from the source topic and publishes
// results to the sink topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/dust-damage-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/dust-damage-service/internal/adapter/kafka"
	"github.com/couchcryptid/dust-damage-service/internal/config"
	"github.com/couchcryptid/dust-damage-service/internal/observability"
	"github.com/couchcryptid/dust-damage-service/internal/pipeline"
)

// alwaysReady is the readiness checker when no pipeline runs.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ready httpadapter.ReadinessChecker = alwaysReady{}
	var closers []func() error

	if cfg.KafkaEnabled {
		reader := kafkaadapter.NewReader(cfg, logger)
		writer := kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(logger, metrics)
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p
		closers = append(closers, reader.Close, writer.Close)

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka pipeline disabled")
	}

	limits := httpadapter.Limits{Rate: cfg.HTTPRateLimit, Burst: cfg.HTTPRateBurst}
	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, limits, metrics, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
