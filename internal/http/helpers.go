package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mbh206/aifinacker/internal/core"
	"github.com/mbh206/aifinacker/internal/currency"
)

const summaryCacheKey = "budget-summary"

func overviewCacheKey(accountID string, year, month int) string {
	return accountID + "-" + strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

// parseYearMonth extracts year and month from query parameters, falling
// back to the current month for absent or invalid values.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}

	return year, month
}

// formatAmount renders cents in the configured display currency, falling
// back to a plain decimal when the currency code is unknown.
func (s *Server) formatAmount(cents int64) string {
	if s.formatter != nil {
		if out, err := s.formatter.Format(cents, s.currency); err == nil {
			return out
		}
	}
	return s.currency + " " + currency.Decimal(cents)
}

// tierClass maps a status tier to its CSS class on progress bars.
func tierClass(tier core.StatusTier) string {
	switch tier {
	case core.TierOverBudget:
		return "over-budget"
	case core.TierNearLimit:
		return "near-limit"
	case core.TierExpired:
		return "expired"
	default:
		return "on-track"
	}
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// renderFragment executes a template partial, logging failures and
// degrading to an inline error fragment.
func (s *Server) renderFragment(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		_, _ = w.Write([]byte(`<div class="error">Templates not loaded</div>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		_, _ = w.Write([]byte(`<div class="error">Rendering failed</div>`))
	}
}
