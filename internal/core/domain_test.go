package core

import (
	"errors"
	"testing"
	"time"
)

func validBudget() Budget {
	return Budget{
		Name:      "Groceries",
		Amount:    Money{Cents: 50000},
		Category:  "food",
		Period:    Monthly,
		StartDate: NewDate(2024, 1, 15),
		EndDate:   NewDate(2024, 2, 15),
		AccountID: "acc-1",
	}
}

func TestBudgetValidate(t *testing.T) {
	if err := validBudget().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*Budget)
		wantErr error
	}{
		{"empty name", func(b *Budget) { b.Name = "   " }, ErrEmptyName},
		{"zero amount", func(b *Budget) { b.Amount.Cents = 0 }, ErrInvalidBudgetAmount},
		{"negative amount", func(b *Budget) { b.Amount.Cents = -100 }, ErrInvalidBudgetAmount},
		{"empty category", func(b *Budget) { b.Category = "" }, ErrEmptyCategory},
		{"unknown period", func(b *Budget) { b.Period = "biweekly" }, ErrInvalidPeriod},
		{"zero start date", func(b *Budget) { b.StartDate = Date{} }, ErrEmptyDate},
		{"zero end date", func(b *Budget) { b.EndDate = Date{} }, ErrEmptyDate},
		{"end equals start", func(b *Budget) { b.EndDate = b.StartDate }, ErrInvalidDateRange},
		{"end before start", func(b *Budget) { b.EndDate = NewDate(2024, 1, 1) }, ErrInvalidDateRange},
		{"missing account", func(b *Budget) { b.AccountID = "" }, ErrEmptyAccount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := validBudget()
			tc.mutate(&b)
			if err := b.Validate(); !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestBudgetValidateAllCategory(t *testing.T) {
	b := validBudget()
	b.Category = CategoryAll
	if err := b.Validate(); err != nil {
		t.Fatalf("sentinel category should validate, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		AccountID: "acc-1",
		Category:  "food",
		Amount:    Money{Cents: -1250},
		Date:      NewDate(2024, 1, 10),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{AccountID: "acc-1", Category: "food", Amount: Money{Cents: -1}, Date: Date{}},
		{AccountID: "", Category: "food", Amount: Money{Cents: -1}, Date: NewDate(2024, 1, 10)},
		{AccountID: "acc-1", Category: "", Amount: Money{Cents: -1}, Date: NewDate(2024, 1, 10)},
		{AccountID: "acc-1", Category: "food", Amount: Money{Cents: 0}, Date: NewDate(2024, 1, 10)},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestAccountValidate(t *testing.T) {
	if err := (Account{Name: "Checking", Currency: "EUR"}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Account{Name: "", Currency: "EUR"}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatal("expected ErrEmptyName")
	}
	if err := (Account{Name: "Checking", Currency: ""}).Validate(); !errors.Is(err, ErrEmptyCurrency) {
		t.Fatal("expected ErrEmptyCurrency")
	}
}

func TestDateISORoundTrip(t *testing.T) {
	d := NewDate(2024, 2, 15)
	parsed, err := ParseDate(d.ISO())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Fatalf("round trip changed date: %s -> %s", d.ISO(), parsed.ISO())
	}

	if _, err := ParseDate("15/02/2024"); err == nil {
		t.Fatal("expected error for non-ISO format")
	}
	if _, err := ParseDate(""); err == nil {
		t.Fatal("expected error for empty string")
	}
}

func TestDateValidate(t *testing.T) {
	if err := NewDate(2025, 1, 1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatal("expected error for zero date")
	}
}
