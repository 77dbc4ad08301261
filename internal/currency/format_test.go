package currency

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestFormat(t *testing.T) {
	f := NewFormatter(language.English)

	got, err := f.Format(1234, "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "$") || !strings.Contains(got, "12.34") {
		t.Fatalf("Format(1234, USD) = %q", got)
	}

	if _, err := f.Format(100, "NOPE"); err == nil {
		t.Fatal("expected error for unknown currency code")
	}
}

func TestDecimal(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{100, "1.00"},
		{5, "0.05"},
		{0, "0.00"},
		{-350, "-3.50"},
	}
	for _, tc := range cases {
		if got := Decimal(tc.cents); got != tc.want {
			t.Fatalf("Decimal(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
