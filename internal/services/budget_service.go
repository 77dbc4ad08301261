// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mbh206/aifinacker/internal/core"
	"github.com/mbh206/aifinacker/internal/log"
	"github.com/mbh206/aifinacker/internal/notify"
)

// BudgetStore is the persistence surface the budget service depends on.
type BudgetStore interface {
	CreateBudget(ctx context.Context, b core.Budget) error
	UpdateBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, id string) error
	GetBudget(ctx context.Context, id string) (core.Budget, error)
	ListBudgets(ctx context.Context, accountID string) ([]core.Budget, error)
	ListAllBudgets(ctx context.Context) ([]core.Budget, error)
}

// Notifier publishes user-facing notification events. A nil Notifier
// disables publishing; outcomes are still returned to the caller.
type Notifier interface {
	PublishNotification(ctx context.Context, kind notify.Kind, message string) error
}

// BudgetInput carries the already-parsed form fields for a create or edit.
// The zero StartDate means "default to today"; the zero EndDate means
// "derive from period" for non-custom kinds.
type BudgetInput struct {
	Name      string
	Amount    core.Money
	Category  string
	Period    core.PeriodKind
	StartDate core.Date
	EndDate   core.Date
	Notes     string
	AccountID string
}

// BudgetService orchestrates budget operations across storage and AMQP.
type BudgetService struct {
	store    BudgetStore
	notifier Notifier
}

func NewBudgetService(store BudgetStore, notifier Notifier) *BudgetService {
	return &BudgetService{
		store:    store,
		notifier: notifier,
	}
}

// CreateBudget assembles, validates and persists a new budget.
//
// The start date defaults to today when absent. For non-custom periods the
// end date is always re-derived from the start date, discarding whatever
// the form carried; for custom periods the submitted end date is kept
// as-is and required.
func (s *BudgetService) CreateBudget(ctx context.Context, in BudgetInput, now time.Time) (core.Budget, error) {
	start := in.StartDate
	if start.IsZero() {
		start = core.NewDate(now.Year(), int(now.Month()), now.Day())
	}

	end := in.EndDate
	if in.Period != core.Custom {
		end = core.ResolveEndDate(start, in.Period, in.EndDate)
	}

	b := core.Budget{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Amount:    in.Amount,
		Category:  in.Category,
		Period:    in.Period,
		StartDate: start,
		EndDate:   end,
		Notes:     in.Notes,
		AccountID: in.AccountID,
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	if err := s.store.CreateBudget(ctx, b); err != nil {
		s.publish(ctx, notify.KindError, "Could not save budget")
		return core.Budget{}, fmt.Errorf("save budget: %w", err)
	}

	s.publish(ctx, notify.KindSuccess, fmt.Sprintf("Budget %q created", b.Name))
	return b, nil
}

// UpdateBudget applies a full-form edit to an existing budget.
//
// The end date is re-derived only when the period kind actually changed to
// a non-custom kind; switching into custom keeps the current end date, and
// an unchanged period keeps whatever end date the form submitted.
func (s *BudgetService) UpdateBudget(ctx context.Context, id string, in BudgetInput, now time.Time) (core.Budget, error) {
	existing, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return core.Budget{}, fmt.Errorf("load budget: %w", err)
	}

	start := in.StartDate
	if start.IsZero() {
		start = existing.StartDate
	}

	end := in.EndDate
	if end.IsZero() {
		end = existing.EndDate
	}
	if in.Period != existing.Period {
		end = core.ResolveEndDate(start, in.Period, end)
	}

	b := core.Budget{
		ID:        existing.ID,
		Name:      in.Name,
		Amount:    in.Amount,
		Category:  in.Category,
		Period:    in.Period,
		StartDate: start,
		EndDate:   end,
		Notes:     in.Notes,
		AccountID: in.AccountID,
	}
	if b.AccountID == "" {
		b.AccountID = existing.AccountID
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	if err := s.store.UpdateBudget(ctx, b); err != nil {
		s.publish(ctx, notify.KindError, "Could not update budget")
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}

	s.publish(ctx, notify.KindSuccess, fmt.Sprintf("Budget %q updated", b.Name))
	return b, nil
}

// DeleteBudget removes a budget by id.
func (s *BudgetService) DeleteBudget(ctx context.Context, id string) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil {
		s.publish(ctx, notify.KindError, "Could not delete budget")
		return fmt.Errorf("delete budget: %w", err)
	}
	s.publish(ctx, notify.KindSuccess, "Budget deleted")
	return nil
}

// Overview returns the active-budget summary across all accounts at now.
func (s *BudgetService) Overview(ctx context.Context, now time.Time) (core.Summary, error) {
	budgets, err := s.store.ListAllBudgets(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("list budgets: %w", err)
	}
	return core.Summarize(budgets, now), nil
}

// publish sends a notification event; failures are logged, never fatal.
func (s *BudgetService) publish(ctx context.Context, kind notify.Kind, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishNotification(ctx, kind, message); err != nil {
		slog.ErrorContext(ctx, "Failed to publish notification",
			log.FieldError, err,
			log.FieldComponent, log.ComponentNotify,
			log.FieldOperation, log.OpPublish,
			"kind", string(kind),
			"message", message)
	}
}
