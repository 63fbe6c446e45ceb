package dues

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BillingPolicy is the fixed monthly charge accrued from a start month up to an
// as-of date.
//
// Both the accrual start and the as-of month are billed: a policy starting in
// January 2025 and evaluated any day of February 2026 accrues 14 months. This is
// the single accrual convention of the ledger.
type BillingPolicy struct {
	MonthlyCharge decimal.Decimal `json:"monthlyCharge"`
	AccrualStart  Date            `json:"accrualStart"`
	AsOf          Date            `json:"asOf"`
}

// At returns a copy of the policy evaluated on day, unless the policy already
// has an explicit as-of date.
func (p BillingPolicy) At(day Date) BillingPolicy {
	if p.AsOf.IsZero() {
		p.AsOf = day
	}
	return p
}

// AccruedMonths returns the number of billed months, never negative.
//
// An as-of date before the accrual start accrues nothing.
func (p BillingPolicy) AccruedMonths() int {
	n := p.AsOf.MonthIndex() - p.AccrualStart.MonthIndex() + 1
	if n < 0 || p.AsOf.IsZero() {
		return 0
	}
	return n
}

// AccruedAmount returns the total charge accrued by the policy.
func (p BillingPolicy) AccruedAmount() decimal.Decimal {
	return p.MonthlyCharge.Mul(decimal.NewFromInt(int64(p.AccruedMonths())))
}

// Validate checks the configuration part of the policy.
func (p BillingPolicy) Validate() error {
	if !p.MonthlyCharge.IsPositive() {
		return fmt.Errorf("%w: monthly charge %s must be > 0", ErrInvalidPolicy, p.MonthlyCharge)
	}
	if p.AccrualStart.IsZero() {
		return fmt.Errorf("%w: accrual start is missing", ErrInvalidPolicy)
	}
	return nil
}
