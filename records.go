package dues

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CommandType is a typed string for identifying journal records.
type CommandType string

// Command types used for identifying records.
const (
	CmdRoster  CommandType = "roster"
	CmdPayment CommandType = "payment"
	CmdExpense CommandType = "expense"
)

// Record is anything that can be appended to a journal.
type Record interface {
	What() CommandType // What returns the command type of the record (e.g., "payment").
}

// Unit is a residential unit of the roster.
//
// ID is the raw label as found in the roster, for instance "A-101". A missing
// opening balance is zero; a negative one is a credit.
type Unit struct {
	ID             string          `json:"unit"`
	Owner          string          `json:"owner,omitempty"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// Key returns the normalized key of the unit.
func (u Unit) Key() UnitKey { return NormalizeUnit(u.ID) }

// RosterImport replaces the whole roster as of a date. Rosters are never
// patched, a refresh is a new import.
type RosterImport struct {
	Date  Date   `json:"date"`
	Units []Unit `json:"units"`
}

func (RosterImport) What() CommandType { return CmdRoster }

// MarshalJSON implements the json.Marshaler interface for RosterImport.
func (r RosterImport) MarshalJSON() ([]byte, error) {
	units := r.Units
	if units == nil {
		units = []Unit{}
	}
	return newJournalLine(CmdRoster).
		Field("date", r.Date).
		Field("units", units).
		Bytes()
}

// PaymentRecord is one payment received from a unit.
//
// Unit and Amount are kept as received: Unit is matched through NormalizeUnit
// and Amount, a string, a number or nil, is read through ParseAmount. Months is
// a free text label ("Jan-Feb 25") that plays no role in the balance.
type PaymentRecord struct {
	ID      string `json:"id,omitempty"`
	Unit    string `json:"unit"`
	PaidAt  Date   `json:"date"`
	Amount  any    `json:"amount"`
	Mode    string `json:"mode,omitempty"`
	Months  string `json:"months,omitempty"`
	BillRef string `json:"billRef,omitempty"`
}

func (PaymentRecord) What() CommandType { return CmdPayment }

// Key returns the normalized key of the paying unit.
func (p PaymentRecord) Key() UnitKey { return NormalizeUnit(p.Unit) }

// Value returns the parsed amount of the payment.
func (p PaymentRecord) Value() decimal.Decimal { return ParseAmount(p.Amount) }

// MarshalJSON implements the json.Marshaler interface for PaymentRecord.
func (p PaymentRecord) MarshalJSON() ([]byte, error) {
	return newJournalLine(CmdPayment).
		Text("id", p.ID).
		Field("date", p.PaidAt).
		Field("unit", p.Unit).
		Field("amount", p.Amount).
		Text("mode", p.Mode).
		Text("months", p.Months).
		Text("billRef", p.BillRef).
		Bytes()
}

// ExpenseRecord is one expense paid by the society. Expenses are reported but
// never enter a unit balance.
type ExpenseRecord struct {
	ID          string `json:"id,omitempty"`
	PaidAt      Date   `json:"date"`
	Month       string `json:"month,omitempty"`
	Head        string `json:"head"`
	Description string `json:"description,omitempty"`
	Amount      any    `json:"amount"`
	Mode        string `json:"mode,omitempty"`
}

func (ExpenseRecord) What() CommandType { return CmdExpense }

// Value returns the parsed amount of the expense.
func (e ExpenseRecord) Value() decimal.Decimal { return ParseAmount(e.Amount) }

// MarshalJSON implements the json.Marshaler interface for ExpenseRecord.
func (e ExpenseRecord) MarshalJSON() ([]byte, error) {
	return newJournalLine(CmdExpense).
		Text("id", e.ID).
		Field("date", e.PaidAt).
		Text("month", e.Month).
		Field("head", e.Head).
		Text("description", e.Description).
		Field("amount", e.Amount).
		Text("mode", e.Mode).
		Bytes()
}

// PaymentMode is the normalized payment channel.
type PaymentMode string

const (
	ModeCash   PaymentMode = "cash"
	ModeBank   PaymentMode = "bank"
	ModeCheque PaymentMode = "cheque"
	ModeUPI    PaymentMode = "upi"
	ModeOther  PaymentMode = "other"
)

// ParsePaymentMode maps the free text found in the sheets ("Bank Transfer",
// "NEFT", "GPay", "chq") onto a PaymentMode. Unknown text is ModeOther.
func ParsePaymentMode(s string) PaymentMode {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return ModeOther
	case strings.Contains(s, "cash"):
		return ModeCash
	case strings.Contains(s, "upi"), strings.Contains(s, "gpay"), strings.Contains(s, "phonepe"), strings.Contains(s, "paytm"):
		return ModeUPI
	case strings.Contains(s, "cheque"), strings.Contains(s, "check"), strings.Contains(s, "chq"):
		return ModeCheque
	case strings.Contains(s, "bank"), strings.Contains(s, "neft"), strings.Contains(s, "imps"), strings.Contains(s, "rtgs"), strings.Contains(s, "transfer"):
		return ModeBank
	default:
		return ModeOther
	}
}
