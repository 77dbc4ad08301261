// Package currency renders money amounts as localized display strings.
//
// The core only ever hands this package already-rounded cent values; all
// arithmetic stays in cents elsewhere.
package currency

import (
	"fmt"
	"strconv"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders amounts for a fixed locale.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a formatter for the given locale tag.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Format renders cents in the given ISO-4217 currency with its symbol,
// e.g. Format(1234, "EUR") -> "€ 12.34".
func (f *Formatter) Format(cents int64, code string) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("parse currency code %q: %w", code, err)
	}
	amount := unit.Amount(float64(cents) / 100)
	return f.printer.Sprintf("%d", currency.Symbol(amount)), nil
}

// Decimal renders cents as a plain decimal string without a symbol,
// suitable for form input values, e.g. Decimal(1234) -> "12.34".
func Decimal(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-" + s
	}
	return s
}
