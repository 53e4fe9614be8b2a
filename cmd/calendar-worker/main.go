package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"neirocalendar/internal/amqp"
	"neirocalendar/internal/cli"
	"neirocalendar/internal/config"
	"neirocalendar/internal/log"
	gsheet "neirocalendar/internal/sheets/google"
	"neirocalendar/internal/storage"
	"neirocalendar/internal/worker"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentWorker, (*config.Config).ValidateWorker)
	logger.Info("Starting calendar-worker")

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	credentials, err := cfg.ServiceAccountCredentials()
	if err != nil {
		logger.Error("Failed to read Google credentials", "error", err)
		os.Exit(1)
	}
	mirror, err := gsheet.NewWithCredentials(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, credentials, logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	// Full resyncs read the shared database. A memory backend lives in the
	// web process only, so the worker relies on events alone.
	var store storage.AttendanceStore
	if cfg.DataBackend == config.BackendSQLite {
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		store = repo
	} else {
		logger.Info("Periodic resync disabled", "backend", cfg.DataBackend)
	}

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	syncWorker := worker.NewSyncWorker(store, mirror, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Consume(gctx, syncWorker.HandleEvent)
	})
	if store != nil {
		g.Go(func() error {
			return syncWorker.RunPeriodic(gctx, cfg.SyncInterval)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
