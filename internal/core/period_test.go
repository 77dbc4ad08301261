package core

import (
	"testing"
	"time"
)

func TestResolveEndDate(t *testing.T) {
	cases := []struct {
		name    string
		start   Date
		kind    PeriodKind
		prevEnd Date
		want    Date
	}{
		{"weekly", NewDate(2024, 1, 15), Weekly, Date{}, NewDate(2024, 1, 22)},
		{"weekly across month end", NewDate(2024, 1, 29), Weekly, Date{}, NewDate(2024, 2, 5)},
		{"monthly mid-month", NewDate(2024, 1, 15), Monthly, Date{}, NewDate(2024, 2, 15)},
		// AddDate normalization: Jan 31 + 1 month = Feb 31 = Mar 2 (2024 is a leap year).
		{"monthly overflow leap", NewDate(2024, 1, 31), Monthly, Date{}, NewDate(2024, 3, 2)},
		{"monthly overflow non-leap", NewDate(2023, 1, 31), Monthly, Date{}, NewDate(2023, 3, 3)},
		{"quarterly", NewDate(2024, 1, 15), Quarterly, Date{}, NewDate(2024, 4, 15)},
		{"quarterly overflow", NewDate(2024, 11, 30), Quarterly, Date{}, NewDate(2025, 3, 2)},
		{"yearly", NewDate(2024, 1, 15), Yearly, Date{}, NewDate(2025, 1, 15)},
		{"yearly from leap day", NewDate(2024, 2, 29), Yearly, Date{}, NewDate(2025, 3, 1)},
		{"custom preserves previous end", NewDate(2024, 1, 15), Custom, NewDate(2024, 2, 15), NewDate(2024, 2, 15)},
		{"custom without previous end", NewDate(2024, 1, 15), Custom, Date{}, Date{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveEndDate(tc.start, tc.kind, tc.prevEnd)
			if !got.Equal(tc.want.Time) {
				t.Fatalf("ResolveEndDate(%s, %s) = %s, want %s", tc.start.ISO(), tc.kind, got.ISO(), tc.want.ISO())
			}
		})
	}
}

func TestResolveEndDateIgnoresPrevEndForDerivedKinds(t *testing.T) {
	start := NewDate(2024, 6, 1)
	stale := NewDate(2024, 6, 8)
	for _, kind := range []PeriodKind{Weekly, Monthly, Quarterly, Yearly} {
		got := ResolveEndDate(start, kind, stale)
		if got.Equal(stale.Time) {
			t.Fatalf("%s kept stale end date instead of rederiving", kind)
		}
	}
}

func TestIsActive(t *testing.T) {
	end := NewDate(2024, 3, 1)

	if !IsActive(end, end.Time) {
		t.Fatal("budget expiring exactly now must still be active")
	}
	if !IsActive(end, end.AddDate(0, 0, -1)) {
		t.Fatal("budget ending tomorrow must be active")
	}
	if IsActive(end, end.Add(time.Second)) {
		t.Fatal("budget past its end date must be inactive")
	}
}

func TestPeriodKindValid(t *testing.T) {
	for _, k := range []PeriodKind{Weekly, Monthly, Quarterly, Yearly, Custom} {
		if !k.Valid() {
			t.Fatalf("%s should be valid", k)
		}
	}
	if PeriodKind("daily").Valid() {
		t.Fatal("daily is not an enumerated kind")
	}
	if PeriodKind("").Valid() {
		t.Fatal("empty kind is not valid")
	}
}
