package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Weekly    PeriodKind = "weekly"
	Monthly   PeriodKind = "monthly"
	Quarterly PeriodKind = "quarterly"
	Yearly    PeriodKind = "yearly"
	Custom    PeriodKind = "custom"
)

// CategoryAll is the sentinel category meaning "aggregate across all categories".
const CategoryAll = "All"

type (
	// PeriodKind is the recurrence granularity used to derive a budget's
	// end date from its start date.
	PeriodKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Account struct {
		ID       string
		Name     string
		Currency string // ISO-4217 code, e.g. "EUR"
		Balance  Money  // derived from transactions, never entered directly
	}

	Transaction struct {
		ID          string
		AccountID   string
		Category    string
		Amount      Money // negative for expenses, positive for income
		Date        Date
		Description string
	}

	Budget struct {
		ID        string
		Name      string
		Amount    Money
		Category  string // specific category or CategoryAll
		Period    PeriodKind
		StartDate Date
		EndDate   Date
		Spent     Money // derived input, aggregated from matching transactions
		Notes     string
		AccountID string
	}
)

var (
	ErrInvalidBudgetAmount = errors.New("budget amount must be positive")
	ErrInvalidDateRange    = errors.New("end date must be after start date")
	ErrEmptyName           = errors.New("empty name")
	ErrEmptyCategory       = errors.New("empty category")
	ErrEmptyAccount        = errors.New("empty account reference")
	ErrInvalidPeriod       = errors.New("invalid period kind")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyCurrency       = errors.New("empty currency code")
	ErrEmptyDate           = errors.New("date cannot be zero")
)

// Valid reports whether k is one of the five enumerated period kinds.
func (k PeriodKind) Valid() bool {
	switch k {
	case Weekly, Monthly, Quarterly, Yearly, Custom:
		return true
	}
	return false
}

// NewDate creates a Date from year, month, day at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// ISO returns the date formatted as YYYY-MM-DD, the form used at every
// persistence and transport boundary.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrEmptyDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// IsPositive reports whether the amount is strictly positive.
func (m Money) IsPositive() bool {
	return m.Cents > 0
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.Currency) == "" {
		return ErrEmptyCurrency
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.AccountID) == "" {
		return ErrEmptyAccount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// Validate checks a fully assembled budget before it is persisted.
// Transient invalid states during interactive editing never reach this
// point; the form layer calls it once on submission.
func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if len(b.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if !b.Amount.IsPositive() {
		return ErrInvalidBudgetAmount
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	if err := b.StartDate.Validate(); err != nil {
		return err
	}
	if err := b.EndDate.Validate(); err != nil {
		return err
	}
	if !b.EndDate.After(b.StartDate.Time) {
		return ErrInvalidDateRange
	}
	if strings.TrimSpace(b.AccountID) == "" {
		return ErrEmptyAccount
	}
	if len(b.Notes) > 500 {
		return errors.New("notes too long (max 500 characters)")
	}
	return nil
}
