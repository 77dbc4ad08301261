package http

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mbh206/aifinacker/internal/core"
)

func TestParseBudgetForm(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantFields []string // fields expected to error; empty means valid
	}{
		{
			name: "valid monthly budget",
			form: url.Values{
				"name":       {"Groceries"},
				"amount":     {"500.00"},
				"account_id": {"acc-1"},
				"period":     {"monthly"},
				"start_date": {"2024-01-15"},
			},
		},
		{
			name:       "missing name and amount",
			form:       url.Values{"account_id": {"acc-1"}},
			wantFields: []string{"name", "amount"},
		},
		{
			name: "missing account",
			form: url.Values{
				"name":   {"Groceries"},
				"amount": {"500"},
			},
			wantFields: []string{"account_id"},
		},
		{
			name: "unparsable amount",
			form: url.Values{
				"name":       {"Groceries"},
				"amount":     {"five hundred"},
				"account_id": {"acc-1"},
			},
			wantFields: []string{"amount"},
		},
		{
			name: "unknown period",
			form: url.Values{
				"name":       {"Groceries"},
				"amount":     {"500"},
				"account_id": {"acc-1"},
				"period":     {"fortnightly"},
			},
			wantFields: []string{"period"},
		},
		{
			name: "custom period without end date",
			form: url.Values{
				"name":       {"Trip"},
				"amount":     {"1000"},
				"account_id": {"acc-1"},
				"period":     {"custom"},
			},
			wantFields: []string{"end_date"},
		},
		{
			name: "malformed dates",
			form: url.Values{
				"name":       {"Groceries"},
				"amount":     {"500"},
				"account_id": {"acc-1"},
				"start_date": {"15/01/2024"},
				"end_date":   {"soon"},
			},
			wantFields: []string{"start_date", "end_date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, errs := parseBudgetForm(tt.form)

			if len(tt.wantFields) == 0 {
				if len(errs) != 0 {
					t.Fatalf("parseBudgetForm() errors = %v, want none", errs)
				}
				if in.Name != tt.form.Get("name") {
					t.Errorf("Name = %q, want %q", in.Name, tt.form.Get("name"))
				}
				return
			}

			got := make(map[string]bool)
			for _, fe := range errs {
				got[fe.Field] = true
			}
			for _, field := range tt.wantFields {
				if !got[field] {
					t.Errorf("expected error on field %q, got %v", field, errs)
				}
			}
		})
	}
}

func TestParseBudgetFormDefaults(t *testing.T) {
	in, errs := parseBudgetForm(url.Values{
		"name":       {"Groceries"},
		"amount":     {"500"},
		"account_id": {"acc-1"},
	})
	if len(errs) != 0 {
		t.Fatalf("parseBudgetForm() errors = %v", errs)
	}
	if in.Period != core.Monthly {
		t.Errorf("Period = %q, want default monthly", in.Period)
	}
	if in.Category != core.CategoryAll {
		t.Errorf("Category = %q, want sentinel %q", in.Category, core.CategoryAll)
	}
	if !in.StartDate.IsZero() {
		t.Errorf("StartDate = %v, want zero (service defaults it to today)", in.StartDate)
	}
}

func TestParseTransactionForm(t *testing.T) {
	form := url.Values{
		"account_id":  {"acc-1"},
		"category":    {"Food"},
		"amount":      {"12.34"},
		"kind":        {"expense"},
		"date":        {"2024-03-10"},
		"description": {"lunch"},
	}
	tx, errs := parseTransactionForm(form)
	if len(errs) != 0 {
		t.Fatalf("parseTransactionForm() errors = %v", errs)
	}
	if tx.Amount.Cents != -1234 {
		t.Errorf("Amount = %d, want -1234 (expense kind negates)", tx.Amount.Cents)
	}
	if tx.Date.ISO() != "2024-03-10" {
		t.Errorf("Date = %s, want 2024-03-10", tx.Date.ISO())
	}
}

func TestParseTransactionFormSignedAmount(t *testing.T) {
	// An already-negative amount is not negated twice.
	tx, errs := parseTransactionForm(url.Values{
		"account_id": {"acc-1"},
		"category":   {"Food"},
		"amount":     {"-12.34"},
		"kind":       {"expense"},
		"date":       {"2024-03-10"},
	})
	if len(errs) != 0 {
		t.Fatalf("parseTransactionForm() errors = %v", errs)
	}
	if tx.Amount.Cents != -1234 {
		t.Errorf("Amount = %d, want -1234", tx.Amount.Cents)
	}

	// Income keeps its sign.
	tx, errs = parseTransactionForm(url.Values{
		"account_id": {"acc-1"},
		"category":   {"Salary"},
		"amount":     {"2500"},
		"kind":       {"income"},
		"date":       {"2024-03-01"},
	})
	if len(errs) != 0 {
		t.Fatalf("parseTransactionForm() errors = %v", errs)
	}
	if tx.Amount.Cents != 250000 {
		t.Errorf("Amount = %d, want 250000", tx.Amount.Cents)
	}
}

func TestParseTransactionFormMissingFields(t *testing.T) {
	_, errs := parseTransactionForm(url.Values{})
	got := make(map[string]bool)
	for _, fe := range errs {
		got[fe.Field] = true
	}
	for _, field := range []string{"account_id", "category", "amount", "date"} {
		if !got[field] {
			t.Errorf("expected error on field %q, got %v", field, errs)
		}
	}
}

func TestParseAccountForm(t *testing.T) {
	a, errs := parseAccountForm(url.Values{"name": {"Checking"}, "currency": {"usd"}}, "EUR")
	if len(errs) != 0 {
		t.Fatalf("parseAccountForm() errors = %v", errs)
	}
	if a.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", a.Currency)
	}

	a, errs = parseAccountForm(url.Values{"name": {"Checking"}}, "EUR")
	if len(errs) != 0 {
		t.Fatalf("parseAccountForm() errors = %v", errs)
	}
	if a.Currency != "EUR" {
		t.Errorf("Currency = %q, want default EUR", a.Currency)
	}
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		body        string
		want        string
	}{
		{
			name:        "json body",
			method:      "POST",
			contentType: "application/json",
			body:        `{"id": "b-123"}`,
			want:        "b-123",
		},
		{
			name:        "form encoded delete",
			method:      "DELETE",
			contentType: "application/x-www-form-urlencoded",
			body:        "id=b-456",
			want:        "b-456",
		},
		{
			name:        "plain form post",
			method:      "POST",
			contentType: "application/x-www-form-urlencoded",
			body:        "id=b-789",
			want:        "b-789",
		},
		{
			name:        "json without id",
			method:      "POST",
			contentType: "application/json",
			body:        `{"other": 1}`,
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/budgets/delete", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			got, err := extractID(req)
			if err != nil {
				t.Fatalf("extractID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("extractID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  hello\x00world  "); got != "helloworld" {
		t.Errorf("sanitizeInput() = %q, want %q", got, "helloworld")
	}
	if got := sanitizeInput("line1\nline2"); got != "line1\nline2" {
		t.Errorf("sanitizeInput() should keep newlines, got %q", got)
	}
}
