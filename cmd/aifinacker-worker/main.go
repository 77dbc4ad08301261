package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/export"
	"github.com/mbh206/aifinacker/internal/notify"
	"github.com/mbh206/aifinacker/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting aifinacker-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Google Sheets report export is optional.
	var exporter worker.Exporter
	if cfg.SheetsExportEnabled() {
		sheets, err := export.NewSheetsExporter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleReportSheet)
		if err != nil {
			logger.Error("Failed to initialize Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = sheets
		logger.Info("Sheets report export enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleReportSheet)
	} else {
		logger.Info("Sheets report export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	w := worker.NewAggregateWorker(repo, amqpClient, exporter, cfg.RefreshInterval)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Worker consuming transaction events",
		"queue", cfg.AMQPQueue,
		"refresh_interval", cfg.RefreshInterval.String())

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped")
}
