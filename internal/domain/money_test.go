package domain

import (
	"errors"
	"testing"
)

func TestParseAmountMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     int64
		wantErr  error
	}{
		{"whole rupees", "500.00", "INR", 50000, nil},
		{"half paise rounds up", "19.995", "INR", 2000, nil},
		{"below half rounds down", "19.994", "INR", 1999, nil},
		{"above half rounds up", "19.996", "INR", 2000, nil},
		{"integer amount", "20", "USD", 2000, nil},
		{"sub-minor precision", "0.005", "EUR", 1, nil},
		{"unsupported currency", "10.00", "JPY", 0, ErrUnsupportedCurrency},
		{"zero amount", "0", "INR", 0, ErrInvalidAmount},
		{"negative amount", "-5.00", "INR", 0, ErrInvalidAmount},
		{"not a decimal", "ten", "INR", 0, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmountMinorUnits(tt.amount, tt.currency)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

// Rounding must be deterministic: the same input yields the same minor units
// on every call.
func TestParseAmountMinorUnits_Deterministic(t *testing.T) {
	for i := 0; i < 1000; i++ {
		got, err := ParseAmountMinorUnits("19.995", "INR")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != 2000 {
			t.Fatalf("iteration %d: expected 2000, got %d", i, got)
		}
	}
}

func TestFormatAmountMinorUnits(t *testing.T) {
	if got := FormatAmountMinorUnits(50000, "INR"); got != "500.00" {
		t.Errorf("expected 500.00, got %s", got)
	}
	if got := FormatAmountMinorUnits(1, "USD"); got != "0.01" {
		t.Errorf("expected 0.01, got %s", got)
	}
}

func TestSupportedCurrency(t *testing.T) {
	for _, c := range []string{"INR", "USD", "EUR", "GBP"} {
		if !SupportedCurrency(c) {
			t.Errorf("expected %s to be supported", c)
		}
	}
	for _, c := range []string{"JPY", "inr", ""} {
		if SupportedCurrency(c) {
			t.Errorf("expected %s to be unsupported", c)
		}
	}
}
