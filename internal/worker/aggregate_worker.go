// Package worker keeps derived aggregates fresh: account balances after
// transaction changes, and the optional Google Sheets budget report.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mbh206/aifinacker/internal/core"
	"github.com/mbh206/aifinacker/internal/log"
	"github.com/mbh206/aifinacker/internal/notify"
)

// Store is the persistence surface the worker needs.
type Store interface {
	RefreshAccountBalance(ctx context.Context, accountID string) (core.Money, error)
	ListAllBudgets(ctx context.Context) ([]core.Budget, error)
}

// Consumer delivers transaction change events until the context ends.
type Consumer interface {
	ConsumeTransactionChanges(ctx context.Context, handler func(*notify.TransactionChangedMessage) error) error
}

// Exporter mirrors budget reports to an external sheet. Optional.
type Exporter interface {
	AppendBudgetReport(ctx context.Context, budgets []core.Budget, now time.Time) error
}

type AggregateWorker struct {
	store    Store
	consumer Consumer
	exporter Exporter // nil when sheets export is disabled
	interval time.Duration
}

func NewAggregateWorker(store Store, consumer Consumer, exporter Exporter, interval time.Duration) *AggregateWorker {
	return &AggregateWorker{
		store:    store,
		consumer: consumer,
		exporter: exporter,
		interval: interval,
	}
}

// HandleTransactionChanged refreshes the owning account's balance after a
// transaction mutation. Budget spend needs no refresh here: it is derived
// at read time by the repository.
func (w *AggregateWorker) HandleTransactionChanged(msg *notify.TransactionChangedMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	balance, err := w.store.RefreshAccountBalance(ctx, msg.AccountID)
	if err != nil {
		return fmt.Errorf("refresh balance for account %s: %w", msg.AccountID, err)
	}

	slog.InfoContext(ctx, "Aggregates refreshed",
		log.FieldComponent, log.ComponentWorker,
		log.FieldAccountID, msg.AccountID,
		"transaction_id", msg.TransactionID,
		"deleted", msg.Deleted,
		"balance_cents", balance.Cents)
	return nil
}

// ExportReport appends the current budget state to the configured sheet.
func (w *AggregateWorker) ExportReport(ctx context.Context, now time.Time) error {
	if w.exporter == nil {
		return nil
	}

	budgets, err := w.store.ListAllBudgets(ctx)
	if err != nil {
		return fmt.Errorf("list budgets for export: %w", err)
	}
	if err := w.exporter.AppendBudgetReport(ctx, budgets, now); err != nil {
		return fmt.Errorf("export budget report: %w", err)
	}
	return nil
}

// Run consumes change events and, when an exporter is configured,
// periodically mirrors the budget report. Blocks until ctx is cancelled.
func (w *AggregateWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.consumer.ConsumeTransactionChanges(ctx, w.HandleTransactionChanged)
	})

	if w.exporter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(w.interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					if err := w.ExportReport(ctx, time.Now()); err != nil {
						slog.ErrorContext(ctx, "Periodic report export failed",
							log.FieldError, err,
							log.FieldComponent, log.ComponentExport,
							log.FieldOperation, log.OpExport)
					}
				}
			}
		})
	}

	return g.Wait()
}
