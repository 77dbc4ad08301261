package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodPost); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "path", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	a, ferrs := parseAccountForm(r.Form, s.currency)
	if len(ferrs) > 0 {
		FieldErrorsResponse(ferrs).Write(w)
		return
	}
	a.ID = uuid.New().String()

	if err := a.Validate(); err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	if err := s.store.CreateAccount(r.Context(), a); err != nil {
		slog.ErrorContext(r.Context(), "Account save failed", "error", err, "account_name", a.Name)
		InternalServerError("Could not save account").
			TriggerErrorNotification("Could not save account").
			Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Account created",
		"account_id", a.ID,
		"account_name", a.Name,
		"currency", a.Currency)

	NewHTMXResponse().
		TriggerAccountChanged().
		TriggerFormReset().
		TriggerSuccessNotification(fmt.Sprintf("Account %q created", a.Name)).
		Write(w)
}

// accountRow is the view model behind one list entry.
type accountRow struct {
	ID       string
	Name     string
	Currency string
	Balance  string
	Negative bool
}

// handleAccountList renders the account list partial with derived
// balances. Balances are maintained by the worker; the value shown here
// is the last refreshed one.
func (s *Server) handleAccountList(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Account list error", "error", err)
		InternalServerError("Could not load accounts").Write(w)
		return
	}

	rows := make([]accountRow, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, accountRow{
			ID:       a.ID,
			Name:     a.Name,
			Currency: a.Currency,
			Balance:  s.formatAmount(a.Balance.Cents),
			Negative: a.Balance.Cents < 0,
		})
	}

	s.renderFragment(w, r, "account_list.html", struct {
		Rows []accountRow
	}{Rows: rows})
}
