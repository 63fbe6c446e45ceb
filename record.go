package dues

import (
	"context"

	"github.com/etnz/dues/internal/ids"
)

// Validate checks a payment before it is recorded and returns a copy with
// quick fixes applied: a missing date is today.
func (p PaymentRecord) Validate() (PaymentRecord, error) {
	if !p.Value().IsPositive() {
		return p, &ValidationError{Field: "amount", Value: p.Amount, Err: ErrInvalidAmount}
	}
	if p.Key().IsZero() {
		return p, &ValidationError{Field: "unit", Value: p.Unit, Err: ErrInvalidUnit}
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = Today()
	}
	return p, nil
}

// Validate checks an expense before it is recorded and returns a copy with
// quick fixes applied: a missing date is today and a missing month label is
// the month of the date ("Jan").
func (e ExpenseRecord) Validate() (ExpenseRecord, error) {
	if !e.Value().IsPositive() {
		return e, &ValidationError{Field: "amount", Value: e.Amount, Err: ErrInvalidAmount}
	}
	if e.PaidAt.IsZero() {
		e.PaidAt = Today()
	}
	if e.Month == "" {
		e.Month = e.PaidAt.Format("Jan")
	}
	return e, nil
}

// RecordPayment validates rec and appends it to store.
//
// An amount that does not parse to a positive value is rejected with a
// ValidationError matching ErrInvalidAmount and the store is not touched.
// The append is the last step: its failure, wrapped as a StoreError, is the
// result. There is no idempotency key, recording the same payment twice
// yields two records.
func RecordPayment(ctx context.Context, store PaymentAppender, rec PaymentRecord) (PaymentRecord, error) {
	rec, err := rec.Validate()
	if err != nil {
		return PaymentRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	if err := store.AppendPayment(ctx, rec); err != nil {
		return PaymentRecord{}, Unavailable("append payment", err)
	}
	return rec, nil
}

// RecordExpense validates rec and appends it to store, like RecordPayment.
func RecordExpense(ctx context.Context, store ExpenseAppender, rec ExpenseRecord) (ExpenseRecord, error) {
	rec, err := rec.Validate()
	if err != nil {
		return ExpenseRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	if err := store.AppendExpense(ctx, rec); err != nil {
		return ExpenseRecord{}, Unavailable("append expense", err)
	}
	return rec, nil
}
