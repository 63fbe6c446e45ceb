package dues

import (
	"context"
	"slices"
	"sync"
)

// Journal is the append-only, in memory list of records.
//
// Records are kept in the order they were appended; nothing is ever sorted,
// edited or removed. It implements Store and is safe for concurrent use.
type Journal struct {
	mu      sync.RWMutex
	records []Record
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{records: make([]Record, 0)}
}

// Append appends records to this journal.
func (j *Journal) Append(recs ...Record) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, recs...)
}

// Records returns a copy of all records in append order.
func (j *Journal) Records() []Record {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return slices.Clone(j.records)
}

// Len returns the number of records.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.records)
}

// Units returns the units of the latest roster import, or nil if none.
func (j *Journal) Units() []Unit {
	j.mu.RLock()
	defer j.mu.RUnlock()
	for i := len(j.records) - 1; i >= 0; i-- {
		if r, ok := j.records[i].(RosterImport); ok {
			return slices.Clone(r.Units)
		}
	}
	return nil
}

// PaymentRecords returns the payments in append order.
func (j *Journal) PaymentRecords() []PaymentRecord {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []PaymentRecord
	for _, r := range j.records {
		if p, ok := r.(PaymentRecord); ok {
			out = append(out, p)
		}
	}
	return out
}

// ExpenseRecords returns the expenses in append order.
func (j *Journal) ExpenseRecords() []ExpenseRecord {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []ExpenseRecord
	for _, r := range j.records {
		if e, ok := r.(ExpenseRecord); ok {
			out = append(out, e)
		}
	}
	return out
}

func (j *Journal) Roster(context.Context) ([]Unit, error)            { return j.Units(), nil }
func (j *Journal) Payments(context.Context) ([]PaymentRecord, error) { return j.PaymentRecords(), nil }
func (j *Journal) Expenses(context.Context) ([]ExpenseRecord, error) { return j.ExpenseRecords(), nil }

func (j *Journal) AppendPayment(_ context.Context, rec PaymentRecord) error {
	j.Append(rec)
	return nil
}

func (j *Journal) AppendExpense(_ context.Context, rec ExpenseRecord) error {
	j.Append(rec)
	return nil
}

// ImportRoster appends a roster import dated today.
func (j *Journal) ImportRoster(_ context.Context, units []Unit) error {
	j.Append(RosterImport{Date: Today(), Units: slices.Clone(units)})
	return nil
}

var (
	_ Store          = (*Journal)(nil)
	_ RosterImporter = (*Journal)(nil)
)
