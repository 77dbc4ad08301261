package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

var evalNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// activeEnd is comfortably in the future relative to evalNow.
var activeEnd = NewDate(2024, 12, 31)

func mustEvaluate(t *testing.T, amount, spent int64, end Date) Progress {
	t.Helper()
	p, err := EvaluateProgress(Money{Cents: amount}, Money{Cents: spent}, end, evalNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestEvaluateProgressTierBoundaries(t *testing.T) {
	cases := []struct {
		name     string
		amount   int64
		spent    int64
		wantPct  float64
		wantTier StatusTier
	}{
		{"zero spend", 50000, 0, 0, TierOnTrack},
		{"just under warning", 100000, 74999, 74.999, TierOnTrack},
		{"exactly at warning", 100000, 75000, 75, TierNearLimit},
		{"just under limit", 100000, 99999, 99.999, TierNearLimit},
		{"exactly at limit", 100000, 100000, 100, TierOverBudget},
		{"uncapped 150 percent displays as 100", 100000, 150000, 100, TierOverBudget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustEvaluate(t, tc.amount, tc.spent, activeEnd)
			if math.Abs(p.PercentSpent-tc.wantPct) > 1e-9 {
				t.Fatalf("PercentSpent = %v, want %v", p.PercentSpent, tc.wantPct)
			}
			if p.Tier != tc.wantTier {
				t.Fatalf("Tier = %s, want %s", p.Tier, tc.wantTier)
			}
		})
	}
}

func TestEvaluateProgressRemaining(t *testing.T) {
	cases := []struct {
		amount, spent, want int64
	}{
		{100000, 30000, 70000},
		{100000, 100000, 0},
		{100000, 150000, 0}, // never negative for display
	}
	for i, tc := range cases {
		p := mustEvaluate(t, tc.amount, tc.spent, activeEnd)
		if p.Remaining.Cents != tc.want {
			t.Fatalf("case %d: Remaining = %d, want %d", i, p.Remaining.Cents, tc.want)
		}
	}

	// percentSpent == 100 implies remaining == 0
	p := mustEvaluate(t, 100000, 100000, activeEnd)
	if p.PercentSpent != 100 || p.Remaining.Cents != 0 {
		t.Fatalf("at 100%%: got pct=%v remaining=%d", p.PercentSpent, p.Remaining.Cents)
	}
}

func TestEvaluateProgressPercentBounds(t *testing.T) {
	for _, spent := range []int64{0, 1, 49999, 100000, 100001, 999999} {
		p := mustEvaluate(t, 100000, spent, activeEnd)
		if p.PercentSpent < 0 || p.PercentSpent > 100 {
			t.Fatalf("spent=%d: PercentSpent %v out of [0,100]", spent, p.PercentSpent)
		}
	}
}

func TestEvaluateProgressClampsNegativeSpend(t *testing.T) {
	p := mustEvaluate(t, 100000, -5000, activeEnd)
	if p.PercentSpent != 0 {
		t.Fatalf("negative spend should evaluate as zero, got pct=%v", p.PercentSpent)
	}
	if p.Remaining.Cents != 100000 {
		t.Fatalf("negative spend should leave full remaining, got %d", p.Remaining.Cents)
	}
}

func TestEvaluateProgressExpirationDominance(t *testing.T) {
	expired := NewDate(2024, 6, 1) // before evalNow
	for _, spent := range []int64{0, 75000, 100000, 150000} {
		p := mustEvaluate(t, 100000, spent, expired)
		if p.Active {
			t.Fatalf("spent=%d: expected inactive", spent)
		}
		if p.Tier != TierExpired {
			t.Fatalf("spent=%d: Tier = %s, want %s regardless of spend ratio", spent, p.Tier, TierExpired)
		}
	}
}

func TestEvaluateProgressInvalidAmount(t *testing.T) {
	for _, amount := range []int64{0, -100} {
		_, err := EvaluateProgress(Money{Cents: amount}, Money{Cents: 100}, activeEnd, evalNow)
		if !errors.Is(err, ErrInvalidBudgetAmount) {
			t.Fatalf("amount=%d: expected ErrInvalidBudgetAmount, got %v", amount, err)
		}
	}
}

func TestEvaluateProgressIdempotent(t *testing.T) {
	first := mustEvaluate(t, 100000, 42000, activeEnd)
	second := mustEvaluate(t, 100000, 42000, activeEnd)
	if first != second {
		t.Fatalf("identical inputs produced %+v then %+v", first, second)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, evalNow)
	if s.TotalBudgeted.Cents != 0 || s.TotalSpent.Cents != 0 || s.OverBudgetCount != 0 {
		t.Fatalf("empty set: got %+v", s)
	}
}

func TestSummarizeExcludesExpired(t *testing.T) {
	budgets := []Budget{
		{Name: "groceries", Amount: Money{Cents: 50000}, Spent: Money{Cents: 60000}, EndDate: activeEnd},
		{Name: "old quarter", Amount: Money{Cents: 20000}, Spent: Money{Cents: 5000}, EndDate: NewDate(2024, 6, 1)},
	}
	s := Summarize(budgets, evalNow)
	if s.TotalBudgeted.Cents != 50000 {
		t.Fatalf("TotalBudgeted = %d, want 50000", s.TotalBudgeted.Cents)
	}
	if s.TotalSpent.Cents != 60000 {
		t.Fatalf("TotalSpent = %d, want 60000", s.TotalSpent.Cents)
	}
	if s.OverBudgetCount != 1 {
		t.Fatalf("OverBudgetCount = %d, want 1", s.OverBudgetCount)
	}
}

func TestSummarizeOverBudgetUsesUncappedComparison(t *testing.T) {
	budgets := []Budget{
		// exactly at the limit: displayed as over-budget tier, but the
		// summary count requires strictly spent > amount
		{Amount: Money{Cents: 10000}, Spent: Money{Cents: 10000}, EndDate: activeEnd},
		{Amount: Money{Cents: 10000}, Spent: Money{Cents: 10001}, EndDate: activeEnd},
		{Amount: Money{Cents: 10000}, EndDate: activeEnd}, // missing spend counts as 0
	}
	s := Summarize(budgets, evalNow)
	if s.OverBudgetCount != 1 {
		t.Fatalf("OverBudgetCount = %d, want 1", s.OverBudgetCount)
	}
	if s.TotalSpent.Cents != 20001 {
		t.Fatalf("TotalSpent = %d, want 20001", s.TotalSpent.Cents)
	}
}
