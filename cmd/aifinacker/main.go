package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/text/language"

	"github.com/mbh206/aifinacker/internal/cli"
	"github.com/mbh206/aifinacker/internal/currency"
	apphttp "github.com/mbh206/aifinacker/internal/http"
	"github.com/mbh206/aifinacker/internal/notify"
	"github.com/mbh206/aifinacker/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting aifinacker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional at startup: without it mutations still persist,
	// balances just stop refreshing until the bus is back.
	var notifier *notify.Client
	if client, err := notify.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue); err != nil {
		logger.Error("Failed to initialize AMQP client, events disabled", "error", err)
	} else {
		notifier = client
		defer notifier.Close()
	}

	// Typed nils must not reach the interface fields.
	var (
		svcNotifier services.Notifier
		events      apphttp.EventPublisher
	)
	if notifier != nil {
		svcNotifier = notifier
		events = notifier
	}

	budgets := services.NewBudgetService(repo, svcNotifier)
	formatter := currency.NewFormatter(language.English)

	srv := apphttp.NewServer(":"+cfg.Port, budgets, repo, events, formatter, cfg.DefaultCurrency)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Server listening", "port", cfg.Port, "db_path", cfg.SQLiteDBPath)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped")
}
