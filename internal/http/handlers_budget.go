package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mbh206/aifinacker/internal/core"
)

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "path", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	in, ferrs := parseBudgetForm(r.Form)
	if len(ferrs) > 0 {
		FieldErrorsResponse(ferrs).Write(w)
		return
	}

	b, err := s.budgets.CreateBudget(r.Context(), in, time.Now())
	if err != nil {
		s.writeBudgetError(w, r, err, "create")
		return
	}

	s.invalidateSummary()

	slog.InfoContext(r.Context(), "Budget created",
		"budget_id", b.ID,
		"budget_name", b.Name,
		"amount_cents", b.Amount.Cents,
		"period", string(b.Period),
		"end_date", b.EndDate.ISO())

	NewHTMXResponse().
		TriggerBudgetChanged().
		TriggerFormReset().
		TriggerSuccessNotification(fmt.Sprintf("Budget %q created (until %s)", b.Name, b.EndDate.ISO())).
		Write(w)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "path", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		FieldErrorsResponse(FieldErrors{{Field: "id", Message: "budget id is required"}}).Write(w)
		return
	}

	in, ferrs := parseBudgetForm(r.Form)
	if len(ferrs) > 0 {
		FieldErrorsResponse(ferrs).Write(w)
		return
	}

	b, err := s.budgets.UpdateBudget(r.Context(), id, in, time.Now())
	if err != nil {
		s.writeBudgetError(w, r, err, "update")
		return
	}

	s.invalidateSummary()

	slog.InfoContext(r.Context(), "Budget updated",
		"budget_id", b.ID,
		"budget_name", b.Name,
		"period", string(b.Period),
		"end_date", b.EndDate.ISO())

	NewHTMXResponse().
		TriggerBudgetChanged().
		TriggerSuccessNotification(fmt.Sprintf("Budget %q updated", b.Name)).
		Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
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
		FieldErrorsResponse(FieldErrors{{Field: "id", Message: "budget id is required"}}).Write(w)
		return
	}

	if err := s.budgets.DeleteBudget(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Budget delete failed", "error", err, "budget_id", id)
		InternalServerError("Could not delete budget").
			TriggerErrorNotification("Could not delete budget").
			Write(w)
		return
	}

	s.invalidateSummary()

	slog.InfoContext(r.Context(), "Budget deleted", "budget_id", id)

	NewHTMXResponse().
		TriggerBudgetChanged().
		TriggerSuccessNotification("Budget deleted").
		Write(w)
}

// writeBudgetError maps service errors to fragment responses: validation
// sentinels become 422s, everything else a generic 500 with an error
// notification.
func (s *Server) writeBudgetError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, core.ErrInvalidBudgetAmount):
		UnprocessableEntityError("Budget amount must be greater than zero").Write(w)
	case errors.Is(err, core.ErrInvalidDateRange):
		UnprocessableEntityError("End date must be after the start date").Write(w)
	case errors.Is(err, core.ErrEmptyName), errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrEmptyAccount), errors.Is(err, core.ErrEmptyDate):
		UnprocessableEntityError(err.Error()).Write(w)
	default:
		slog.ErrorContext(r.Context(), "Budget operation failed", "error", err, "operation", op)
		InternalServerError("Could not save budget").
			TriggerErrorNotification("Could not save budget").
			Write(w)
	}
}

// budgetRow is the view model behind one list entry.
type budgetRow struct {
	ID        string
	Name      string
	Category  string
	Period    string
	StartDate string
	EndDate   string
	Amount    string
	Spent     string
	Remaining string
	Percent   float64
	Width     int
	TierClass string
	Warn      bool
	Expired   bool
	Notes     string
}

// handleBudgetList renders the budget list partial with progress bars.
// Bars are colored by status tier; crossing the text-warning threshold
// adds a secondary warning line while the bar color is still the
// near-limit one.
func (s *Server) handleBudgetList(w http.ResponseWriter, r *http.Request) {
	accountID := sanitizeInput(r.URL.Query().Get("account"))

	var (
		budgets []core.Budget
		err     error
	)
	if accountID != "" {
		budgets, err = s.store.ListBudgets(r.Context(), accountID)
	} else {
		budgets, err = s.store.ListAllBudgets(r.Context())
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget list error", "error", err, "account_id", accountID)
		InternalServerError("Could not load budgets").Write(w)
		return
	}

	now := time.Now()
	rows := make([]budgetRow, 0, len(budgets))
	for _, b := range budgets {
		row := budgetRow{
			ID:        b.ID,
			Name:      b.Name,
			Category:  b.Category,
			Period:    string(b.Period),
			StartDate: b.StartDate.ISO(),
			EndDate:   b.EndDate.ISO(),
			Amount:    s.formatAmount(b.Amount.Cents),
			Spent:     s.formatAmount(b.Spent.Cents),
			Notes:     b.Notes,
		}

		p, evalErr := b.Evaluate(now)
		if evalErr != nil {
			// Stored amounts are validated on the way in; a bad row is
			// still rendered, without a bar.
			slog.WarnContext(r.Context(), "Budget not evaluable", "error", evalErr, "budget_id", b.ID)
			row.TierClass = "invalid"
			rows = append(rows, row)
			continue
		}

		row.Remaining = s.formatAmount(p.Remaining.Cents)
		row.Percent = p.PercentSpent
		row.Width = int(p.PercentSpent)
		row.TierClass = tierClass(p.Tier)
		row.Warn = p.Active && p.PercentSpent >= core.WarnTextPercent
		row.Expired = !p.Active
		rows = append(rows, row)
	}

	s.renderFragment(w, r, "budget_list.html", struct {
		Account string
		Rows    []budgetRow
	}{Account: accountID, Rows: rows})
}
