package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mbh206/aifinacker/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- Accounts ---

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, currency, balance_cents) VALUES (?, ?, ?, ?)`,
		a.ID, a.Name, a.Currency, a.Balance.Cents)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account saved",
		"account_id", a.ID,
		"name", a.Name,
		"currency", a.Currency)
	return nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	var a core.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, currency, balance_cents FROM accounts WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Currency, &a.Balance.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, currency, balance_cents FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Currency, &a.Balance.Cents); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// RefreshAccountBalance recomputes the denormalized balance from the signed
// sum of the account's transactions. Called by the aggregation worker on
// transaction.changed events.
func (r *SQLiteRepository) RefreshAccountBalance(ctx context.Context, accountID string) (core.Money, error) {
	var balance core.Money
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions WHERE account_id = ?`,
		accountID).Scan(&balance.Cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("compute balance: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET balance_cents = ? WHERE id = ?`, balance.Cents, accountID)
	if err != nil {
		return core.Money{}, fmt.Errorf("update balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Money{}, ErrNotFound
	}

	slog.InfoContext(ctx, "Account balance refreshed",
		"account_id", accountID,
		"balance_cents", balance.Cents)
	return balance, nil
}

// --- Transactions ---

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, account_id, category, amount_cents, tx_date, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.AccountID, t.Category, t.Amount.Cents, t.Date.ISO(), t.Description)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"account_id", t.AccountID,
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.ISO())
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	var (
		t       core.Transaction
		dateStr string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, account_id, category, amount_cents, tx_date, description
		 FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &t.AccountID, &t.Category, &t.Amount.Cents, &dateStr, &t.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	if t.Date, err = core.ParseDate(dateStr); err != nil {
		return core.Transaction{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	return t, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTransactions returns an account's transactions for a calendar month,
// newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, accountID string, year, month int) ([]core.Transaction, error) {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, category, amount_cents, tx_date, description
		 FROM transactions
		 WHERE account_id = ? AND substr(tx_date, 1, 7) = ?
		 ORDER BY tx_date DESC, created_at DESC`,
		accountID, prefix)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			dateStr string
		)
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Category, &t.Amount.Cents, &dateStr, &t.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Date, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// ListCategories returns the distinct categories seen in transactions,
// for form selectors.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM transactions ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// --- Budgets ---

// budgetColumns selects budget fields plus the derived spent aggregate:
// the sum of expense magnitudes (negative amounts) on the owning account,
// inside the budget window, matching the budget's category. The sentinel
// category matches every category.
const budgetColumns = `
	b.id, b.name, b.amount_cents, b.category, b.period,
	b.start_date, b.end_date, b.notes, b.account_id,
	COALESCE((
		SELECT SUM(-t.amount_cents) FROM transactions t
		WHERE t.account_id = b.account_id
		  AND t.amount_cents < 0
		  AND t.tx_date >= b.start_date AND t.tx_date <= b.end_date
		  AND (b.category = ? OR t.category = b.category)
	), 0) AS spent_cents`

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, name, amount_cents, category, period, start_date, end_date, notes, account_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Amount.Cents, b.Category, string(b.Period),
		b.StartDate.ISO(), b.EndDate.ISO(), b.Notes, b.AccountID)
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"budget_id", b.ID,
		"budget_name", b.Name,
		"amount_cents", b.Amount.Cents,
		"period", string(b.Period),
		"start_date", b.StartDate.ISO(),
		"end_date", b.EndDate.ISO())
	return nil
}

// UpdateBudget replaces every mutable field; edits are full-record upserts.
func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets
		 SET name = ?, amount_cents = ?, category = ?, period = ?,
		     start_date = ?, end_date = ?, notes = ?, account_id = ?, updated_at = ?
		 WHERE id = ?`,
		b.Name, b.Amount.Cents, b.Category, string(b.Period),
		b.StartDate.ISO(), b.EndDate.ISO(), b.Notes, b.AccountID, time.Now().UTC(), b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets b WHERE b.id = ?`,
		core.CategoryAll, id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// ListBudgets returns an account's budgets in creation order, each with
// its derived spent amount.
func (r *SQLiteRepository) ListBudgets(ctx context.Context, accountID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets b WHERE b.account_id = ? ORDER BY b.created_at`,
		core.CategoryAll, accountID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// ListAllBudgets returns every budget across accounts, for the aggregate
// dashboard summary.
func (r *SQLiteRepository) ListAllBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets b ORDER BY b.created_at`,
		core.CategoryAll)
	if err != nil {
		return nil, fmt.Errorf("list all budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b                core.Budget
		period           string
		startStr, endStr string
	)
	err := row.Scan(&b.ID, &b.Name, &b.Amount.Cents, &b.Category, &period,
		&startStr, &endStr, &b.Notes, &b.AccountID, &b.Spent.Cents)
	if err != nil {
		return core.Budget{}, err
	}
	b.Period = core.PeriodKind(period)
	if b.StartDate, err = core.ParseDate(startStr); err != nil {
		return core.Budget{}, fmt.Errorf("parse stored start date %q: %w", startStr, err)
	}
	if b.EndDate, err = core.ParseDate(endStr); err != nil {
		return core.Budget{}, fmt.Errorf("parse stored end date %q: %w", endStr, err)
	}
	return b, nil
}

// MonthSpend returns an account's total expense amount and per-category
// breakdown for a calendar month.
func (r *SQLiteRepository) MonthSpend(ctx context.Context, accountID string, year, month int) (core.Money, map[string]core.Money, error) {
	prefix := fmt.Sprintf("%04d-%02d", year, month)
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, SUM(-amount_cents)
		 FROM transactions
		 WHERE account_id = ? AND amount_cents < 0 AND substr(tx_date, 1, 7) = ?
		 GROUP BY category`,
		accountID, prefix)
	if err != nil {
		return core.Money{}, nil, fmt.Errorf("month spend: %w", err)
	}
	defer rows.Close()

	var total core.Money
	byCategory := make(map[string]core.Money)
	for rows.Next() {
		var (
			category string
			cents    int64
		)
		if err := rows.Scan(&category, &cents); err != nil {
			return core.Money{}, nil, fmt.Errorf("scan month spend: %w", err)
		}
		byCategory[category] = core.Money{Cents: cents}
		total.Cents += cents
	}
	return total, byCategory, rows.Err()
}
