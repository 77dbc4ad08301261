// Package core: budget period date-range derivation.
//
// The end date of a budget is derived from its start date and period kind.
// Calendar-month arithmetic follows time.Time.AddDate normalization: adding
// one month to Jan 31 yields Mar 2 (Mar 3 in non-leap years), not the last
// day of February. That convention is deliberate and covered by tests.
package core

import "time"

// ResolveEndDate computes a budget's end date from its start date and
// period kind.
//
// For the custom kind prevEnd is returned unchanged; the caller supplies
// the end date explicitly and switching into custom must not discard it.
// A zero prevEnd with the custom kind yields a zero Date, which the form
// layer treats as "end date still required".
//
// The function is total over valid inputs: it never fails, and it does not
// enforce end-after-start. That check is a submission-time gate (see
// Budget.Validate), which keeps transient states during interactive
// editing out of the resolver.
func ResolveEndDate(start Date, kind PeriodKind, prevEnd Date) Date {
	switch kind {
	case Weekly:
		return Date{Time: start.AddDate(0, 0, 7)}
	case Monthly:
		return Date{Time: start.AddDate(0, 1, 0)}
	case Quarterly:
		return Date{Time: start.AddDate(0, 3, 0)}
	case Yearly:
		return Date{Time: start.AddDate(1, 0, 0)}
	case Custom:
		return prevEnd
	}
	return prevEnd
}

// IsActive reports whether a budget whose window ends at end is still
// active at now. The boundary is inclusive: a budget expiring exactly at
// now still counts as active. Expiration is a computed predicate, never
// stored state, so it needs no background job.
func IsActive(end Date, now time.Time) bool {
	return !end.Before(now)
}
