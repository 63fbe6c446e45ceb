package dues

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBillingPolicy_AccruedMonths(t *testing.T) {
	start := NewDate(2025, 1, 1)
	tests := []struct {
		asOf string
		want int
	}{
		{"2025-01-01", 1},
		{"2025-01-31", 1},
		{"2025-02-01", 2},
		{"2025-12-31", 12},
		{"2026-02-10", 14},
		{"2024-12-31", 0},
		{"2020-06-15", 0},
	}
	for _, tt := range tests {
		t.Run(tt.asOf, func(t *testing.T) {
			p := BillingPolicy{MonthlyCharge: D("2100"), AccrualStart: start, AsOf: MustParse(tt.asOf)}
			if got := p.AccruedMonths(); got != tt.want {
				t.Errorf("AccruedMonths() = %d, want %d", got, tt.want)
			}
			assertDecimal(t, "AccruedAmount", p.AccruedAmount(), D("2100").Mul(decimal.NewFromInt(int64(tt.want))).String())
		})
	}
}

func TestBillingPolicy_ZeroAsOf(t *testing.T) {
	p := BillingPolicy{MonthlyCharge: D("2100"), AccrualStart: NewDate(2025, 1, 1)}
	if got := p.AccruedMonths(); got != 0 {
		t.Errorf("AccruedMonths() = %d, want 0", got)
	}
	at := p.At(NewDate(2025, 3, 5))
	if got := at.AccruedMonths(); got != 3 {
		t.Errorf("At(2025-03-05).AccruedMonths() = %d, want 3", got)
	}
	fixed := at.At(NewDate(2030, 1, 1))
	if fixed.AsOf != NewDate(2025, 3, 5) {
		t.Errorf("At() replaced an explicit as-of date: %v", fixed.AsOf)
	}
}

func TestBillingPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  BillingPolicy
		wantErr bool
	}{
		{"valid", BillingPolicy{MonthlyCharge: D("2100"), AccrualStart: NewDate(2025, 1, 1)}, false},
		{"zero charge", BillingPolicy{AccrualStart: NewDate(2025, 1, 1)}, true},
		{"negative charge", BillingPolicy{MonthlyCharge: D("-1"), AccrualStart: NewDate(2025, 1, 1)}, true},
		{"no start", BillingPolicy{MonthlyCharge: D("2100")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPolicy) {
				t.Errorf("Validate() error = %v, want ErrInvalidPolicy", err)
			}
		})
	}
}
