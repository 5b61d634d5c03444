package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// currencyExponents is the allow-list of supported ISO currency codes and the
// number of decimal places in their minor unit.
var currencyExponents = map[string]int32{
	"INR": 2,
	"USD": 2,
	"EUR": 2,
	"GBP": 2,
}

// SupportedCurrency reports whether code is in the supported allow-list.
func SupportedCurrency(code string) bool {
	_, ok := currencyExponents[code]
	return ok
}

// ParseAmountMinorUnits converts a decimal amount string into the currency's
// minor units with deterministic round-half-up. The amount must be a positive
// decimal; the gateway is never sent a floating-point value.
func ParseAmountMinorUnits(amount, currency string) (int64, error) {
	exp, ok := currencyExponents[currency]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a decimal", ErrInvalidAmount, amount)
	}
	if d.Sign() <= 0 {
		return 0, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	// Round half away from zero; for positive amounts this is round-half-up.
	minor := d.Shift(exp).Round(0)
	if !minor.IsInteger() || !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: amount out of range", ErrInvalidAmount)
	}
	return minor.IntPart(), nil
}

// FormatAmountMinorUnits renders a minor-unit amount as a fixed-point decimal
// string for display (e.g. 2000 INR minor units -> "20.00").
func FormatAmountMinorUnits(minor int64, currency string) string {
	exp, ok := currencyExponents[currency]
	if !ok {
		exp = 2
	}
	return decimal.New(minor, -exp).StringFixed(exp)
}
