// Request parsing and per-field validation for the HTMX forms.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mbh206/aifinacker/internal/core"
	"github.com/mbh206/aifinacker/internal/services"
)

// FieldError reports a single invalid or missing form field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors collects per-field problems; a non-empty set blocks the
// submission before it reaches the service layer.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// parseBudgetForm extracts and validates a budget create/edit form.
// Derivation of defaulted dates happens in the service; the parser only
// rejects what is unusable.
func parseBudgetForm(form url.Values) (services.BudgetInput, FieldErrors) {
	var errs FieldErrors

	in := services.BudgetInput{
		Name:      sanitizeInput(form.Get("name")),
		Category:  sanitizeInput(form.Get("category")),
		Notes:     sanitizeInput(form.Get("notes")),
		AccountID: sanitizeInput(form.Get("account_id")),
	}
	if in.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if in.Category == "" {
		in.Category = core.CategoryAll
	}
	if in.AccountID == "" {
		errs = append(errs, FieldError{Field: "account_id", Message: "account is required"})
	}

	amountStr := strings.TrimSpace(form.Get("amount"))
	if amountStr == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "amount is required"})
	} else if cents, err := core.ParseDecimalToCents(amountStr); err != nil {
		errs = append(errs, FieldError{Field: "amount", Message: "amount is not a valid number"})
	} else {
		in.Amount = core.Money{Cents: cents}
	}

	in.Period = core.PeriodKind(strings.TrimSpace(form.Get("period")))
	if in.Period == "" {
		in.Period = core.Monthly
	}
	if !in.Period.Valid() {
		errs = append(errs, FieldError{Field: "period", Message: "unknown period"})
	}

	if v := strings.TrimSpace(form.Get("start_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			errs = append(errs, FieldError{Field: "start_date", Message: "start date must be YYYY-MM-DD"})
		} else {
			in.StartDate = d
		}
	}
	if v := strings.TrimSpace(form.Get("end_date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			errs = append(errs, FieldError{Field: "end_date", Message: "end date must be YYYY-MM-DD"})
		} else {
			in.EndDate = d
		}
	}
	if in.Period == core.Custom && in.EndDate.IsZero() {
		errs = append(errs, FieldError{Field: "end_date", Message: "end date is required for custom periods"})
	}

	return in, errs
}

// parseTransactionForm extracts and validates a transaction create form.
// Amounts are signed: negative for expenses, positive for income. An
// explicit kind=expense field negates a positive amount for convenience.
func parseTransactionForm(form url.Values) (core.Transaction, FieldErrors) {
	var errs FieldErrors

	t := core.Transaction{
		AccountID:   sanitizeInput(form.Get("account_id")),
		Category:    sanitizeInput(form.Get("category")),
		Description: sanitizeInput(form.Get("description")),
	}
	if t.AccountID == "" {
		errs = append(errs, FieldError{Field: "account_id", Message: "account is required"})
	}
	if t.Category == "" {
		errs = append(errs, FieldError{Field: "category", Message: "category is required"})
	}

	amountStr := strings.TrimSpace(form.Get("amount"))
	if amountStr == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "amount is required"})
	} else if cents, err := core.ParseSignedDecimalToCents(amountStr); err != nil {
		errs = append(errs, FieldError{Field: "amount", Message: "amount is not a valid number"})
	} else {
		if strings.TrimSpace(form.Get("kind")) == "expense" && cents > 0 {
			cents = -cents
		}
		t.Amount = core.Money{Cents: cents}
	}

	dateStr := strings.TrimSpace(form.Get("date"))
	if dateStr == "" {
		errs = append(errs, FieldError{Field: "date", Message: "date is required"})
	} else if d, err := core.ParseDate(dateStr); err != nil {
		errs = append(errs, FieldError{Field: "date", Message: "date must be YYYY-MM-DD"})
	} else {
		t.Date = d
	}

	return t, errs
}

// parseAccountForm extracts and validates an account create form.
func parseAccountForm(form url.Values, defaultCurrency string) (core.Account, FieldErrors) {
	var errs FieldErrors

	a := core.Account{
		Name:     sanitizeInput(form.Get("name")),
		Currency: strings.ToUpper(sanitizeInput(form.Get("currency"))),
	}
	if a.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if a.Currency == "" {
		a.Currency = defaultCurrency
	}
	if len(a.Currency) != 3 {
		errs = append(errs, FieldError{Field: "currency", Message: "currency must be a 3-letter ISO code"})
	}

	return a, errs
}

// extractID pulls an "id" value out of a delete request, accepting JSON
// bodies, form-encoded bodies and regular form posts, as HTMX sends all
// three depending on the trigger.
func extractID(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.Contains(contentType, "application/json") || r.Method == http.MethodDelete {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return "", err
		}
		if len(body) > 0 && (body[0] == '{' || body[0] == '[') {
			var payload map[string]any
			if err := json.Unmarshal(body, &payload); err != nil {
				return "", err
			}
			if id, ok := payload["id"]; ok {
				return sanitizeInput(stringValue(id)), nil
			}
			return "", nil
		}
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return "", err
		}
		return sanitizeInput(form.Get("id")), nil
	}

	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return sanitizeInput(r.Form.Get("id")), nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
