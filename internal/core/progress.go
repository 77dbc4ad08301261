package core

import "time"

// Threshold constants for budget progress classification. All three are
// part of the public contract: 75 drives the color tier, 90 drives the
// secondary "near limit" text warning rendered by the fragment layer, and
// 100 marks over-budget.
const (
	NearLimitPercent  = 75.0
	WarnTextPercent   = 90.0
	OverBudgetPercent = 100.0
)

const (
	TierOnTrack    StatusTier = "on-track"
	TierNearLimit  StatusTier = "near-limit"
	TierOverBudget StatusTier = "over-budget"
	TierExpired    StatusTier = "expired"
)

type (
	// StatusTier classifies a budget's spend-vs-amount state and drives
	// display color and warning text.
	StatusTier string

	// Progress is derived on every read from (amount, spent, endDate);
	// it is never persisted. Recomputation is idempotent and cheap.
	Progress struct {
		PercentSpent float64 // capped at 100 for bar-width purposes
		Remaining    Money   // never negative for display
		Tier         StatusTier
		Active       bool
	}

	// Summary aggregates a set of budgets at a point in time. Only active
	// budgets contribute.
	Summary struct {
		TotalBudgeted   Money
		TotalSpent      Money
		OverBudgetCount int
	}
)

// EvaluateProgress derives a budget's progress from its allocation, spend
// and end date at the given evaluation time.
//
// Negative spend is clamped to zero for progress purposes; the raw value
// stays untouched on the Budget for any display that wants it. The percent
// is capped at 100: callers needing "how far over budget" recompute from
// the raw spent and amount.
//
// Returns ErrInvalidBudgetAmount when amount is not positive rather than
// letting the division produce Inf or NaN.
func EvaluateProgress(amount, spent Money, end Date, now time.Time) (Progress, error) {
	if !amount.IsPositive() {
		return Progress{}, ErrInvalidBudgetAmount
	}
	if spent.Cents < 0 {
		spent.Cents = 0
	}

	pct := float64(spent.Cents) / float64(amount.Cents) * 100
	if pct > OverBudgetPercent {
		pct = OverBudgetPercent
	}

	remaining := Money{Cents: amount.Cents - spent.Cents}
	if remaining.Cents < 0 {
		remaining.Cents = 0
	}

	p := Progress{
		PercentSpent: pct,
		Remaining:    remaining,
		Active:       IsActive(end, now),
	}
	p.Tier = classify(pct, p.Active)
	return p, nil
}

// classify maps a capped percent to a tier. Expiration strictly overrides
// the spend-based classification.
func classify(pct float64, active bool) StatusTier {
	if !active {
		return TierExpired
	}
	switch {
	case pct >= OverBudgetPercent:
		return TierOverBudget
	case pct >= NearLimitPercent:
		return TierNearLimit
	default:
		return TierOnTrack
	}
}

// Evaluate is a convenience wrapper deriving progress for a whole budget.
func (b Budget) Evaluate(now time.Time) (Progress, error) {
	return EvaluateProgress(b.Amount, b.Spent, b.EndDate, now)
}

// Summarize aggregates totals over the budgets active at now.
//
// TotalBudgeted and TotalSpent sum amount and spent of active budgets;
// OverBudgetCount counts active budgets whose uncapped spent strictly
// exceeds their amount (unlike the capped display percent). Budgets are
// taken in caller order; sorting, when wanted, is the caller's concern.
func Summarize(budgets []Budget, now time.Time) Summary {
	var s Summary
	for _, b := range budgets {
		if !IsActive(b.EndDate, now) {
			continue
		}
		s.TotalBudgeted.Cents += b.Amount.Cents
		s.TotalSpent.Cents += b.Spent.Cents
		if b.Spent.Cents > b.Amount.Cents {
			s.OverBudgetCount++
		}
	}
	return s
}
