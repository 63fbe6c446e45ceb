package renderer

import (
	"github.com/etnz/dues"
)

// Balances is the balance report ready to be rendered.
// Amounts are dues.Money so that they already carry their formatting.
type Balances struct {
	AsOf          dues.Date
	Available     bool
	Reason        string // Reason why the report is not available.
	MonthlyCharge dues.Money
	AccrualStart  dues.Date
	AccruedMonths int
	Rows          []BalanceRow
	Orphans       []PaymentRow
	Totals        BalanceTotals
}

// BalanceRow is the line of one unit.
type BalanceRow struct {
	Unit        string
	Owner       string
	Opening     dues.Money
	Accrued     dues.Money
	Paid        dues.Money
	Outstanding dues.Money
	Credit      bool
}

// BalanceTotals sums the rows, and the unmatched payments.
type BalanceTotals struct {
	Opening     dues.Money
	Accrued     dues.Money
	Paid        dues.Money
	Outstanding dues.Money
	Orphaned    dues.Money
}

// PaymentRow is one payment line.
type PaymentRow struct {
	Date    dues.Date
	Unit    string
	Amount  dues.Money
	Mode    string
	Months  string
	BillRef string
}

func newPaymentRow(p dues.PaymentRecord, currency string) PaymentRow {
	return PaymentRow{
		Date:    p.PaidAt,
		Unit:    p.Unit,
		Amount:  dues.M(p.Value(), currency),
		Mode:    string(dues.ParsePaymentMode(p.Mode)),
		Months:  p.Months,
		BillRef: p.BillRef,
	}
}

// NewBalances creates the view of a reconciliation. err, if any, is the reason
// why the report is unavailable.
func NewBalances(r dues.Reconciliation, currency string, err error) *Balances {
	b := &Balances{
		AsOf:          r.Policy.AsOf,
		Available:     r.Available,
		MonthlyCharge: dues.M(r.Policy.MonthlyCharge, currency),
		AccrualStart:  r.Policy.AccrualStart,
		AccruedMonths: r.Policy.AccruedMonths(),
		Rows:          make([]BalanceRow, 0, len(r.Entries)),
		Orphans:       make([]PaymentRow, 0, len(r.Orphans)),
		Totals: BalanceTotals{
			Opening:     dues.M(r.Totals.OpeningBalance, currency),
			Accrued:     dues.M(r.Totals.AccruedAmount, currency),
			Paid:        dues.M(r.Totals.TotalPaid, currency),
			Outstanding: dues.M(r.Totals.Outstanding, currency),
			Orphaned:    dues.M(r.Totals.Orphaned, currency),
		},
	}
	if err != nil {
		b.Reason = err.Error()
	}
	for _, e := range r.Entries {
		b.Rows = append(b.Rows, BalanceRow{
			Unit:        e.Unit,
			Owner:       e.Owner,
			Opening:     dues.M(e.OpeningBalance, currency),
			Accrued:     dues.M(e.AccruedAmount, currency),
			Paid:        dues.M(e.TotalPaid, currency),
			Outstanding: dues.M(e.Outstanding, currency),
			Credit:      e.IsCredit(),
		})
	}
	for _, p := range r.Orphans {
		b.Orphans = append(b.Orphans, newPaymentRow(p, currency))
	}
	return b
}

// Statement is the view of a single unit.
type Statement struct {
	Unit          string
	Owner         string
	AsOf          dues.Date
	MonthlyCharge dues.Money
	AccruedMonths int
	Opening       dues.Money
	Accrued       dues.Money
	Paid          dues.Money
	Outstanding   dues.Money
	Credit        bool
	Payments      []PaymentRow
}

// NewStatement creates the view of a unit statement.
func NewStatement(s dues.Statement, policy dues.BillingPolicy, currency string) *Statement {
	e := s.Entry
	v := &Statement{
		Unit:          e.Unit,
		Owner:         e.Owner,
		AsOf:          policy.AsOf,
		MonthlyCharge: dues.M(policy.MonthlyCharge, currency),
		AccruedMonths: e.AccruedMonths,
		Opening:       dues.M(e.OpeningBalance, currency),
		Accrued:       dues.M(e.AccruedAmount, currency),
		Paid:          dues.M(e.TotalPaid, currency),
		Outstanding:   dues.M(e.Outstanding, currency),
		Credit:        e.IsCredit(),
		Payments:      make([]PaymentRow, 0, len(s.Payments)),
	}
	for _, p := range s.Payments {
		v.Payments = append(v.Payments, newPaymentRow(p, currency))
	}
	return v
}

// Expenses is the view of an expense summary.
type Expenses struct {
	Period string
	Heads  []ExpenseHead
	Total  dues.Money
}

type ExpenseHead struct {
	Head  string
	Count int
	Total dues.Money
}

// NewExpenses creates the view of an expense summary.
func NewExpenses(s dues.ExpenseSummary, currency string) *Expenses {
	v := &Expenses{
		Period: period(s.From, s.To),
		Heads:  make([]ExpenseHead, 0, len(s.Heads)),
		Total:  dues.M(s.Total, currency),
	}
	for _, h := range s.Heads {
		v.Heads = append(v.Heads, ExpenseHead{Head: h.Head, Count: h.Count, Total: dues.M(h.Total, currency)})
	}
	return v
}

func period(from, to dues.Date) string {
	switch {
	case from.IsZero() && to.IsZero():
		return ""
	case from.IsZero():
		return "until " + to.String()
	case to.IsZero():
		return "since " + from.String()
	default:
		return "from " + from.String() + " to " + to.String()
	}
}
