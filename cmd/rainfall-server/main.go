// Command rainfall-server serves the rainfall analysis API: upload a wide
// Year×Month spreadsheet to POST /v1/analyze and receive annual totals,
// monthly averages, and the long-format records.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/rainfall-trends/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/rainfall-trends/internal/adapter/kafka"
	parquetadapter "github.com/couchcryptid/rainfall-trends/internal/adapter/parquet"
	"github.com/couchcryptid/rainfall-trends/internal/config"
	"github.com/couchcryptid/rainfall-trends/internal/observability"
	"github.com/couchcryptid/rainfall-trends/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var loaders []pipeline.Loader

	// Report publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		loaders = append(loaders, writer)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReportTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	if cfg.ParquetExportDir != "" {
		loaders = append(loaders, parquetadapter.NewDirWriter(cfg.ParquetExportDir, logger))
		logger.Info("parquet export enabled", "dir", cfg.ParquetExportDir)
	}

	p := pipeline.New(pipeline.NewTransformer(logger), loaders, logger, metrics, cfg.PreviewRows)
	srv := httpadapter.NewServer(cfg, p, p, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()
	p.SetReady(true)

	<-ctx.Done()
	logger.Info("shutting down")
	p.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
