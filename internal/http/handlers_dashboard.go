package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/mbh206/aifinacker/internal/core"
)

// handleIndex renders the main page shell; the fragments load themselves
// through the /ui/ partial endpoints.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Account list error", "error", err)
	}
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Category list error", "error", err)
	}

	now := time.Now()
	data := struct {
		Today      string
		Year       int
		Month      int
		Currency   string
		Accounts   []core.Account
		Categories []string
		Periods    []string
	}{
		Today:      core.NewDate(now.Year(), int(now.Month()), now.Day()).ISO(),
		Year:       now.Year(),
		Month:      int(now.Month()),
		Currency:   s.currency,
		Accounts:   accounts,
		Categories: categories,
		Periods: []string{
			string(core.Weekly), string(core.Monthly), string(core.Quarterly),
			string(core.Yearly), string(core.Custom),
		},
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleBudgetSummary renders the active-budget summary partial. The
// aggregate is cached briefly; budget and transaction mutations
// invalidate it.
func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	summary, found := s.summaryCache.Get(summaryCacheKey)
	if !found {
		var err error
		summary, err = s.budgets.Overview(r.Context(), time.Now())
		if err != nil {
			slog.ErrorContext(r.Context(), "Budget summary error", "error", err)
			InternalServerError("Could not load summary").Write(w)
			return
		}
		s.summaryCache.Set(summaryCacheKey, summary)
	}

	remaining := summary.TotalBudgeted.Cents - summary.TotalSpent.Cents
	if remaining < 0 {
		remaining = 0
	}

	s.renderFragment(w, r, "budget_summary.html", struct {
		TotalBudgeted   string
		TotalSpent      string
		Remaining       string
		OverBudgetCount int
	}{
		TotalBudgeted:   s.formatAmount(summary.TotalBudgeted.Cents),
		TotalSpent:      s.formatAmount(summary.TotalSpent.Cents),
		Remaining:       s.formatAmount(remaining),
		OverBudgetCount: summary.OverBudgetCount,
	})
}

// handleMonthOverview renders an account's month spend breakdown.
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	accountID := sanitizeInput(r.URL.Query().Get("account"))
	if accountID == "" {
		BadRequestError("account parameter is required").Write(w)
		return
	}
	year, month := parseYearMonth(r)

	key := overviewCacheKey(accountID, year, month)
	ov, found := s.overviewCache.Get(key)
	if !found {
		total, byCategory, err := s.store.MonthSpend(r.Context(), accountID, year, month)
		if err != nil {
			slog.ErrorContext(r.Context(), "Month overview error",
				"error", err, "account_id", accountID, "year", year, "month", month)
			InternalServerError("Could not load overview").Write(w)
			return
		}
		ov = monthOverview{Year: year, Month: month, Total: total, ByCategory: byCategory}
		s.overviewCache.Set(key, ov)
	}

	// Scale bars against the largest category.
	var maxCents int64
	for _, m := range ov.ByCategory {
		if m.Cents > maxCents {
			maxCents = m.Cents
		}
	}

	type row struct {
		Name   string
		Amount string
		Width  int
	}
	var rows []row
	for name, m := range ov.ByCategory {
		width := 0
		if maxCents > 0 && m.Cents > 0 {
			width = int((m.Cents*100 + maxCents/2) / maxCents)
			if width > 0 && width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		rows = append(rows, row{Name: name, Amount: s.formatAmount(m.Cents), Width: width})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Width > rows[j].Width })

	s.renderFragment(w, r, "month_overview.html", struct {
		Account string
		Year    int
		Month   int
		Total   string
		Rows    []row
	}{Account: accountID, Year: ov.Year, Month: ov.Month, Total: s.formatAmount(ov.Total.Cents), Rows: rows})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleReady verifies the dependencies a request actually needs:
// templates and the database.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if _, err := s.store.ListAccounts(r.Context()); err != nil {
		checks["storage"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}

	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": status,
		"checks": checks,
	})
}
