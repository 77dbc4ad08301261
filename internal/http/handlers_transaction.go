package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mbh206/aifinacker/internal/notify"
	"github.com/mbh206/aifinacker/internal/storage"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "path", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	t, ferrs := parseTransactionForm(r.Form)
	if len(ferrs) > 0 {
		FieldErrorsResponse(ferrs).Write(w)
		return
	}
	t.ID = uuid.New().String()

	if err := t.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	if _, err := s.store.GetAccount(r.Context(), t.AccountID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			FieldErrorsResponse(FieldErrors{{Field: "account_id", Message: "unknown account"}}).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Account lookup failed", "error", err, "account_id", t.AccountID)
		InternalServerError("Could not save transaction").Write(w)
		return
	}

	if err := s.store.CreateTransaction(r.Context(), t); err != nil {
		slog.ErrorContext(r.Context(), "Transaction save failed",
			"error", err,
			"account_id", t.AccountID,
			"amount_cents", t.Amount.Cents)
		InternalServerError("Could not save transaction").
			TriggerErrorNotification("Could not save transaction").
			Write(w)
		return
	}

	s.publishTransactionChanged(r, t.ID, t.AccountID, false)

	year, month := t.Date.Year(), int(t.Date.Month())
	s.invalidateSummary()
	s.invalidateOverview(t.AccountID, year, month)

	slog.InfoContext(r.Context(), "Transaction created",
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.ISO())

	NewHTMXResponse().
		TriggerTransactionChanged(t.AccountID, year, month).
		TriggerBudgetChanged().
		TriggerFormReset().
		TriggerSuccessNotification(fmt.Sprintf("Recorded %s in %s", s.formatAmount(t.Amount.Cents), t.Category)).
		Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodDelete, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}

	id, err := extractID(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Parse delete request error", "error", err, "path", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}
	if id == "" {
		FieldErrorsResponse(FieldErrors{{Field: "id", Message: "transaction id is required"}}).Write(w)
		return
	}

	// Load first so the event and cache invalidation know the account
	// and month the row belonged to.
	t, err := s.store.GetTransaction(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			NotFoundError("Transaction not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Transaction lookup failed", "error", err, "transaction_id", id)
		InternalServerError("Could not delete transaction").Write(w)
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Transaction delete failed", "error", err, "transaction_id", id)
		InternalServerError("Could not delete transaction").
			TriggerErrorNotification("Could not delete transaction").
			Write(w)
		return
	}

	s.publishTransactionChanged(r, t.ID, t.AccountID, true)

	year, month := t.Date.Year(), int(t.Date.Month())
	s.invalidateSummary()
	s.invalidateOverview(t.AccountID, year, month)

	slog.InfoContext(r.Context(), "Transaction deleted",
		"transaction_id", t.ID,
		"account_id", t.AccountID)

	NewHTMXResponse().
		TriggerTransactionChanged(t.AccountID, year, month).
		TriggerBudgetChanged().
		TriggerSuccessNotification("Transaction deleted").
		Write(w)
}

// publishTransactionChanged emits the change event for the worker. A
// publish failure is logged and swallowed: the row is already persisted
// and the balance converges on the next event.
func (s *Server) publishTransactionChanged(r *http.Request, transactionID, accountID string, deleted bool) {
	if s.events == nil {
		return
	}
	msg := notify.NewTransactionChanged(transactionID, accountID, deleted)
	if err := s.events.PublishTransactionChanged(r.Context(), msg); err != nil {
		slog.ErrorContext(r.Context(), "Transaction event publish failed",
			"error", err,
			"transaction_id", transactionID,
			"account_id", accountID,
			"deleted", deleted)
	}
}

// transactionRow is the view model behind one list entry.
type transactionRow struct {
	ID          string
	Date        string
	Category    string
	Description string
	Amount      string
	Negative    bool
}

// handleTransactionList renders the month's transactions for an account.
func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	accountID := sanitizeInput(r.URL.Query().Get("account"))
	if accountID == "" {
		BadRequestError("account parameter is required").Write(w)
		return
	}
	year, month := parseYearMonth(r)

	txs, err := s.store.ListTransactions(r.Context(), accountID, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Transaction list error",
			"error", err, "account_id", accountID, "year", year, "month", month)
		InternalServerError("Could not load transactions").Write(w)
		return
	}

	rows := make([]transactionRow, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, transactionRow{
			ID:          t.ID,
			Date:        t.Date.ISO(),
			Category:    t.Category,
			Description: t.Description,
			Amount:      s.formatAmount(t.Amount.Cents),
			Negative:    t.Amount.Cents < 0,
		})
	}

	s.renderFragment(w, r, "transaction_list.html", struct {
		Account string
		Year    int
		Month   int
		Rows    []transactionRow
	}{Account: accountID, Year: year, Month: month, Rows: rows})
}
