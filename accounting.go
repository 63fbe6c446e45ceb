package dues

import (
	"github.com/shopspring/decimal"
)

// LedgerEntry is the balance of one unit under a billing policy. It is derived
// on every query and never stored.
type LedgerEntry struct {
	Unit           string          `json:"unit"`
	Owner          string          `json:"owner,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalPaid      decimal.Decimal `json:"totalPaid"`
	AccruedMonths  int             `json:"accruedMonths"`
	AccruedAmount  decimal.Decimal `json:"accruedAmount"`
	Outstanding    decimal.Decimal `json:"outstanding"`
}

// IsCredit reports whether the unit has paid more than it owes.
func (e LedgerEntry) IsCredit() bool { return e.Outstanding.IsNegative() }

// newEntry computes the entry of a unit that paid 'paid' in total.
//
// Outstanding = Opening + Accrued - Paid, with its sign: a negative outstanding
// is a credit and must survive for refund reporting.
func newEntry(unit Unit, paid decimal.Decimal, policy BillingPolicy) LedgerEntry {
	accrued := policy.AccruedAmount()
	return LedgerEntry{
		Unit:           unit.ID,
		Owner:          unit.Owner,
		OpeningBalance: unit.OpeningBalance,
		TotalPaid:      paid,
		AccruedMonths:  policy.AccruedMonths(),
		AccruedAmount:  accrued,
		Outstanding:    unit.OpeningBalance.Add(accrued).Sub(paid),
	}
}

// ComputeBalance returns the ledger entry of a single unit.
//
// Only payments whose normalized unit equals the unit's normalized ID count; a
// unit or a payment with an empty key matches nothing. The result depends on
// its arguments only, the as-of date comes from the policy.
func ComputeBalance(unit Unit, payments []PaymentRecord, policy BillingPolicy) LedgerEntry {
	paid := decimal.Zero
	if key := unit.Key(); !key.IsZero() {
		for _, p := range payments {
			if p.Key() == key {
				paid = paid.Add(p.Value())
			}
		}
	}
	return newEntry(unit, paid, policy)
}

// ComputeRosterBalances returns exactly one entry per unit, in roster order.
//
// Payments are grouped once by normalized key. Units without payments have a
// zero TotalPaid, payments without a unit are ignored (see Reconcile to list them).
func ComputeRosterBalances(units []Unit, payments []PaymentRecord, policy BillingPolicy) []LedgerEntry {
	paid := paidByUnit(payments)
	entries := make([]LedgerEntry, 0, len(units))
	for _, u := range units {
		total := decimal.Zero
		if key := u.Key(); !key.IsZero() {
			if v, ok := paid[key]; ok {
				total = v
			}
		}
		entries = append(entries, newEntry(u, total, policy))
	}
	return entries
}

// paidByUnit sums payments by normalized key, skipping empty keys.
func paidByUnit(payments []PaymentRecord) map[UnitKey]decimal.Decimal {
	paid := make(map[UnitKey]decimal.Decimal)
	for _, p := range payments {
		key := p.Key()
		if key.IsZero() {
			continue
		}
		paid[key] = paid[key].Add(p.Value())
	}
	return paid
}

// Totals sums a reconciliation.
type Totals struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	AccruedAmount  decimal.Decimal `json:"accruedAmount"`
	TotalPaid      decimal.Decimal `json:"totalPaid"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Orphaned       decimal.Decimal `json:"orphaned"`
}

// Reconciliation is the balance report of a whole roster.
//
// When Available is false the sources could not be read and the report holds
// no entries: it must be displayed as unavailable, never as zero balances.
type Reconciliation struct {
	Available bool            `json:"available"`
	Policy    BillingPolicy   `json:"policy"`
	Entries   []LedgerEntry   `json:"entries"`
	Orphans   []PaymentRecord `json:"orphans"`
	Totals    Totals          `json:"totals"`
}

// Reconcile computes the roster balances and lists the orphaned payments, those
// whose unit is empty or matches no unit of the roster, in input order.
//
// Orphans are a diagnostic to fix upstream typos, they are not errors.
func Reconcile(units []Unit, payments []PaymentRecord, policy BillingPolicy) Reconciliation {
	r := Reconciliation{
		Available: true,
		Policy:    policy,
		Entries:   ComputeRosterBalances(units, payments, policy),
		Orphans:   []PaymentRecord{},
	}

	known := make(map[UnitKey]bool, len(units))
	for _, u := range units {
		if key := u.Key(); !key.IsZero() {
			known[key] = true
		}
	}
	for _, p := range payments {
		if !known[p.Key()] {
			r.Orphans = append(r.Orphans, p)
			r.Totals.Orphaned = r.Totals.Orphaned.Add(p.Value())
		}
	}

	for _, e := range r.Entries {
		r.Totals.OpeningBalance = r.Totals.OpeningBalance.Add(e.OpeningBalance)
		r.Totals.AccruedAmount = r.Totals.AccruedAmount.Add(e.AccruedAmount)
		r.Totals.TotalPaid = r.Totals.TotalPaid.Add(e.TotalPaid)
		r.Totals.Outstanding = r.Totals.Outstanding.Add(e.Outstanding)
	}
	return r
}

// Entry returns the entry of the unit matching raw, and false if there is none.
func (r Reconciliation) Entry(raw string) (LedgerEntry, bool) {
	key := NormalizeUnit(raw)
	if key.IsZero() {
		return LedgerEntry{}, false
	}
	for _, e := range r.Entries {
		if NormalizeUnit(e.Unit) == key {
			return e, true
		}
	}
	return LedgerEntry{}, false
}
