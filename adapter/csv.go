package adapter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/etnz/dues"
)

// ReadCSV reads a whole CSV stream into a Table. Cells are kept as strings.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // hand edited exports have ragged rows.

	var t Table
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make([]any, len(rec))
		for i, c := range rec {
			row[i] = c
		}
		t = append(t, row)
	}
	return t, nil
}

// CSVSource reads the three exports of the society spreadsheet from CSV files.
//
// Files are read again on every call. An empty path means the sheet is not
// provided and reads as empty. CSVSource is read-only.
type CSVSource struct {
	OwnersPath      string
	CollectionsPath string
	ExpensesPath    string

	// Schemas default to Owners, Collections and Expenses.
	OwnersSchema      *Schema
	CollectionsSchema *Schema
	ExpensesSchema    *Schema
}

func schemaOr(s *Schema, def Schema) Schema {
	if s == nil {
		return def
	}
	return *s
}

// readFile reads the CSV file at path, nil for an empty path.
func readFile(ctx context.Context, op, path string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, dues.Unavailable(op, err)
	}
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, dues.Unavailable(op, fmt.Errorf("could not open %q: %w", path, err))
	}
	defer f.Close()
	t, err := ReadCSV(f)
	if err != nil {
		return nil, dues.Unavailable(op, fmt.Errorf("%q: %w", path, err))
	}
	return t, nil
}

func (s CSVSource) Roster(ctx context.Context) ([]dues.Unit, error) {
	t, err := readFile(ctx, "read roster", s.OwnersPath)
	if err != nil || t == nil {
		return []dues.Unit{}, err
	}
	units, err := t.Units(schemaOr(s.OwnersSchema, Owners))
	if err != nil {
		return nil, dues.Unavailable("read roster", err)
	}
	return units, nil
}

func (s CSVSource) Payments(ctx context.Context) ([]dues.PaymentRecord, error) {
	t, err := readFile(ctx, "read payments", s.CollectionsPath)
	if err != nil || t == nil {
		return []dues.PaymentRecord{}, err
	}
	payments, err := t.Payments(schemaOr(s.CollectionsSchema, Collections))
	if err != nil {
		return nil, dues.Unavailable("read payments", err)
	}
	return payments, nil
}

func (s CSVSource) Expenses(ctx context.Context) ([]dues.ExpenseRecord, error) {
	t, err := readFile(ctx, "read expenses", s.ExpensesPath)
	if err != nil || t == nil {
		return []dues.ExpenseRecord{}, err
	}
	expenses, err := t.Expenses(schemaOr(s.ExpensesSchema, Expenses))
	if err != nil {
		return nil, dues.Unavailable("read expenses", err)
	}
	return expenses, nil
}

var _ dues.Source = CSVSource{}
