package adapter

import (
	"fmt"

	"github.com/etnz/dues"
)

// Table is a header row followed by data rows, as read from a sheet.
type Table [][]any

// header returns the first row as text.
func (t Table) header() ([]string, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("empty table: no header row")
	}
	h := make([]string, len(t[0]))
	for i, c := range t[0] {
		if c != nil {
			h[i] = fmt.Sprint(c)
		}
	}
	return h, nil
}

// rows resolves the header with s and calls fn with every non blank data row.
func (t Table) rows(s Schema, fn func(ix Index, row []any)) error {
	header, err := t.header()
	if err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	ix, err := s.Resolve(header)
	if err != nil {
		return err
	}
	for _, row := range t[1:] {
		if blank(row) {
			continue
		}
		fn(ix, row)
	}
	return nil
}

// Units reads a roster table with the schema s, usually Owners.
//
// Rows without a usable unit label are kept: they will match no payment and
// show up in the report, which is how a typo gets noticed.
func (t Table) Units(s Schema) ([]dues.Unit, error) {
	units := []dues.Unit{}
	err := t.rows(s, func(ix Index, row []any) {
		units = append(units, dues.Unit{
			ID:             ix.Text(row, FieldUnit),
			Owner:          ix.Text(row, FieldOwner),
			OpeningBalance: dues.ParseAmount(ix.Cell(row, FieldOpening)),
		})
	})
	return units, err
}

// Payments reads a payment table with the schema s, usually Collections.
// Amounts are kept raw, they are parsed when balances are computed.
func (t Table) Payments(s Schema) ([]dues.PaymentRecord, error) {
	payments := []dues.PaymentRecord{}
	err := t.rows(s, func(ix Index, row []any) {
		payments = append(payments, dues.PaymentRecord{
			Unit:    ix.Text(row, FieldUnit),
			PaidAt:  ix.Date(row, FieldDate),
			Amount:  ix.Cell(row, FieldAmount),
			Mode:    ix.Text(row, FieldMode),
			Months:  ix.Text(row, FieldMonths),
			BillRef: ix.Text(row, FieldBillRef),
		})
	})
	return payments, err
}

// Expenses reads an expense table with the schema s, usually Expenses.
func (t Table) Expenses(s Schema) ([]dues.ExpenseRecord, error) {
	expenses := []dues.ExpenseRecord{}
	err := t.rows(s, func(ix Index, row []any) {
		expenses = append(expenses, dues.ExpenseRecord{
			PaidAt:      ix.Date(row, FieldDate),
			Month:       ix.Text(row, FieldMonth),
			Head:        ix.Text(row, FieldHead),
			Description: ix.Text(row, FieldDescription),
			Amount:      ix.Cell(row, FieldAmount),
			Mode:        ix.Text(row, FieldMode),
		})
	})
	return expenses, err
}
