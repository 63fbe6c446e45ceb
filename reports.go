package dues

import (
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// BuildReport reads a fresh snapshot from src and reconciles it. Roster and
// payments come from a single read when src is a Snapshotter.
//
// If either read fails the report is unavailable and empty, and the error is a
// StoreError: a failed fetch must never look like a roster of zero balances.
func BuildReport(ctx context.Context, src Source, policy BillingPolicy) (Reconciliation, error) {
	unavailable := Reconciliation{Policy: policy, Entries: []LedgerEntry{}, Orphans: []PaymentRecord{}}

	src, err := Snapshot(ctx, src)
	if err != nil {
		return unavailable, err
	}
	units, err := src.Roster(ctx)
	if err != nil {
		return unavailable, Unavailable("read roster", err)
	}
	payments, err := src.Payments(ctx)
	if err != nil {
		return unavailable, Unavailable("read payments", err)
	}
	return Reconcile(units, payments, policy), nil
}

// Statement is the detail of a single unit: its entry and its payments.
type Statement struct {
	Entry    LedgerEntry     `json:"entry"`
	Payments []PaymentRecord `json:"payments"`
}

// NewStatement returns the statement of unit. Payments are sorted by date, ties
// keep their recording order.
func NewStatement(unit Unit, payments []PaymentRecord, policy BillingPolicy) Statement {
	key := unit.Key()
	own := []PaymentRecord{}
	if !key.IsZero() {
		for _, p := range payments {
			if p.Key() == key {
				own = append(own, p)
			}
		}
	}
	slices.SortStableFunc(own, func(a, b PaymentRecord) int {
		switch {
		case a.PaidAt.Before(b.PaidAt):
			return -1
		case a.PaidAt.After(b.PaidAt):
			return 1
		default:
			return 0
		}
	})
	return Statement{
		Entry:    ComputeBalance(unit, payments, policy),
		Payments: own,
	}
}

// FindUnit returns the first unit of the roster matching raw.
func FindUnit(units []Unit, raw string) (Unit, bool) {
	key := NormalizeUnit(raw)
	if key.IsZero() {
		return Unit{}, false
	}
	for _, u := range units {
		if u.Key() == key {
			return u, true
		}
	}
	return Unit{}, false
}

// ExpenseHead is the total spent under one expense head.
type ExpenseHead struct {
	Head  string          `json:"head"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ExpenseSummary groups expenses paid in [from, to] by head.
type ExpenseSummary struct {
	From  Date            `json:"from"`
	To    Date            `json:"to"`
	Heads []ExpenseHead   `json:"heads"`
	Total decimal.Decimal `json:"total"`
}

// SummarizeExpenses groups the expenses dated within [from, to] by head, heads
// sorted by name. A zero bound is open. Heads are matched case-insensitively and
// an empty head is reported as "Misc".
func SummarizeExpenses(expenses []ExpenseRecord, from, to Date) ExpenseSummary {
	s := ExpenseSummary{From: from, To: to, Heads: []ExpenseHead{}}
	index := map[string]int{}
	for _, e := range expenses {
		if !from.IsZero() && e.PaidAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.PaidAt.After(to) {
			continue
		}
		head := strings.TrimSpace(e.Head)
		if head == "" {
			head = "Misc"
		}
		k := strings.ToLower(head)
		i, ok := index[k]
		if !ok {
			i = len(s.Heads)
			index[k] = i
			s.Heads = append(s.Heads, ExpenseHead{Head: head})
		}
		v := e.Value()
		s.Heads[i].Count++
		s.Heads[i].Total = s.Heads[i].Total.Add(v)
		s.Total = s.Total.Add(v)
	}
	slices.SortFunc(s.Heads, func(a, b ExpenseHead) int {
		return strings.Compare(strings.ToLower(a.Head), strings.ToLower(b.Head))
	})
	return s
}
