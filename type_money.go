package dues

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency of the society accounts.
const DefaultCurrency = "INR"

// Money is an amount ready for display in a currency.
//
// Balances are computed on decimal.Decimal, Money is only their printed form.
type Money struct {
	amount decimal.Decimal
	code   string
}

// M attaches a currency code to amount. An empty code means DefaultCurrency.
func M(amount decimal.Decimal, code string) Money {
	if code == "" {
		code = DefaultCurrency
	}
	return Money{amount: amount, code: code}
}

// String formats the amount with its currency symbol and grouping, for
// instance "₹23,600.00". It is rounded half away from zero to the currency's
// minor unit.
func (m Money) String() string {
	// money.New always resolves a currency, unknown codes included.
	cur := money.New(0, m.code).Currency()
	minor := m.amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// Abs returns m without its sign.
func (m Money) Abs() Money { return Money{amount: m.amount.Abs(), code: m.code} }

// Currency returns the currency code.
func (m Money) Currency() string { return m.code }

// Decimal returns the amount.
func (m Money) Decimal() decimal.Decimal { return m.amount }
