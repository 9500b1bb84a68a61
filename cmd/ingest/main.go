package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/levity-measure/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/levity-measure/internal/adapter/kafka"
	"github.com/couchcryptid/levity-measure/internal/config"
	"github.com/couchcryptid/levity-measure/internal/observability"
	"github.com/couchcryptid/levity-measure/internal/observation"
	"github.com/couchcryptid/levity-measure/internal/pipeline"
	"github.com/couchcryptid/levity-measure/internal/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	reg := registry.New()

	schema, err := observation.LoadSchema(cfg.SchemaPath)
	if err != nil {
		logger.Error("failed to load schema", "path", cfg.SchemaPath, "error", err)
		os.Exit(1)
	}
	if err := schema.Check(reg); err != nil {
		logger.Error("schema does not resolve", "schema", schema.Name, "error", err)
		os.Exit(1)
	}
	logger.Info("schema loaded", "schema", schema.Name, "fields", len(schema.Fields), "unit_system", cfg.UnitSystem)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(schema, reg, cfg.Preferences, metrics, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, reg, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
