package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/apptlens/apptlens/internal/config"
	"github.com/apptlens/apptlens/internal/dataset"
	"github.com/apptlens/apptlens/internal/engine"
	"github.com/apptlens/apptlens/internal/logging"
	"github.com/apptlens/apptlens/internal/publish"
	"github.com/apptlens/apptlens/internal/server"
)

var configFile = flag.String("config", "configs/config.yaml", "Path to the configuration file")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration from %s: %v\n", *configFile, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync() // Flush buffered logs on exit
	}()

	sugar := logger.Sugar()
	sugar.Infow("Configuration loaded successfully", "path", *configFile)

	// Build the record store once; it is immutable for the process
	// lifetime.
	store, issues, err := dataset.LoadCSV(cfg.Dataset.Path, logger.Named("dataset"))
	if err != nil {
		sugar.Fatalw("Failed to load dataset", "path", cfg.Dataset.Path, "error", err)
	}
	if len(issues) > 0 {
		sugar.Warnw("Dataset rows rejected during ingestion", "rejected", len(issues))
	}
	if store.Len() == 0 {
		sugar.Fatalw("Dataset contains no valid records", "path", cfg.Dataset.Path)
	}

	var sink engine.Sink
	var publisher *publish.Publisher
	if cfg.Publisher.Enabled {
		publisher, err = publish.New(cfg.Publisher, logger.Named("publisher"))
		if err != nil {
			sugar.Fatalw("Failed to create refresh summary publisher", "error", err)
		}
		defer func() {
			if err := publisher.Close(); err != nil {
				sugar.Warnw("Failed to close publisher cleanly", "error", err)
			}
		}()
		sink = publisher
	}

	assembler := engine.NewAssembler(store, cfg.Engine.HistogramCapDays)
	session := engine.NewSession(assembler, logger.Named("engine"), sink)
	handler := server.NewHandler(session, assembler, logger.Named("api"))
	srv := server.New(cfg.Server, handler, logger.Named("server"))

	// Handle Graceful Shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-signals
		sugar.Infow("Received signal, initiating shutdown...", "signal", sig.String())
		cancel()
	}()

	sugar.Info("Starting dashboard server...")
	runErr := srv.Run(ctx)

	switch {
	case runErr == nil, errors.Is(runErr, context.Canceled):
		sugar.Info("Server shutdown gracefully.")
	default:
		sugar.Errorw("Server stopped unexpectedly", zap.Error(runErr))
		_ = logger.Sync()
		os.Exit(1)
	}
}
