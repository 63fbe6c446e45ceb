package dues

import "context"

// RosterSource supplies the current roster of units.
type RosterSource interface {
	Roster(ctx context.Context) ([]Unit, error)
}

// PaymentSource supplies every payment recorded so far, in recording order.
type PaymentSource interface {
	Payments(ctx context.Context) ([]PaymentRecord, error)
}

// ExpenseSource supplies every expense recorded so far, in recording order.
type ExpenseSource interface {
	Expenses(ctx context.Context) ([]ExpenseRecord, error)
}

// PaymentAppender durably appends a payment. A nil error means the record was written.
type PaymentAppender interface {
	AppendPayment(ctx context.Context, rec PaymentRecord) error
}

// ExpenseAppender durably appends an expense.
type ExpenseAppender interface {
	AppendExpense(ctx context.Context, rec ExpenseRecord) error
}

// RosterImporter replaces the roster wholesale.
type RosterImporter interface {
	ImportRoster(ctx context.Context, units []Unit) error
}

// Source is what a balance report reads.
type Source interface {
	RosterSource
	PaymentSource
}

// Snapshotter is a Source that can read its roster and its payments from a
// single state of its medium.
type Snapshotter interface {
	Snapshot(ctx context.Context) (Source, error)
}

// Snapshot returns a Source frozen at one state of src if src is a
// Snapshotter, and src itself otherwise.
func Snapshot(ctx context.Context, src Source) (Source, error) {
	s, ok := src.(Snapshotter)
	if !ok {
		return src, nil
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, Unavailable("read snapshot", err)
	}
	return snap, nil
}

// Store is a complete system of record.
//
// Stores do not serialize concurrent appends beyond what their medium offers,
// and never retry: both are left to the caller.
type Store interface {
	RosterSource
	PaymentSource
	ExpenseSource
	PaymentAppender
	ExpenseAppender
}
