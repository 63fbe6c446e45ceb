// Package adapter maps loosely structured tables, spreadsheet exports and CSV
// files, onto the dues records.
//
// Spreadsheets are edited by hand and their headers drift: "Flat No.", "flat",
// "Unit" all name the same column. A Schema resolves a header row once into an
// Index, and rows are then read through it.
package adapter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/etnz/dues"
)

// Field names known by the schemas.
const (
	FieldUnit        = "unit"
	FieldOwner       = "owner"
	FieldOpening     = "opening"
	FieldDate        = "date"
	FieldMonths      = "months"
	FieldAmount      = "amount"
	FieldMode        = "mode"
	FieldBillRef     = "billRef"
	FieldMonth       = "month"
	FieldHead        = "head"
	FieldDescription = "description"
)

// Column describes one field of a schema and the header names it accepts.
type Column struct {
	Field    string
	Aliases  []string // Aliases are compared after headerKey, most specific first.
	Required bool
}

// Schema is the expected shape of a table.
type Schema struct {
	Name    string
	Columns []Column
}

var (
	// Owners is the roster sheet.
	Owners = Schema{Name: "Owners", Columns: []Column{
		{Field: FieldUnit, Aliases: []string{"flat", "flat no", "flat number", "unit", "unit no", "apartment", "door no"}, Required: true},
		{Field: FieldOwner, Aliases: []string{"owner", "owner name", "name", "member", "resident"}},
		{Field: FieldOpening, Aliases: []string{"opening balance", "opening", "opening due", "arrears", "previous dues", "balance bf"}},
	}}

	// Collections is the payments sheet.
	Collections = Schema{Name: "Collections", Columns: []Column{
		{Field: FieldDate, Aliases: []string{"date", "paid on", "payment date", "received on"}},
		{Field: FieldUnit, Aliases: []string{"flat", "flat no", "flat number", "unit", "unit no", "apartment", "door no"}, Required: true},
		{Field: FieldMonths, Aliases: []string{"months paid", "months", "period", "for month"}},
		{Field: FieldAmount, Aliases: []string{"amount", "amount received", "paid", "received"}, Required: true},
		{Field: FieldMode, Aliases: []string{"mode", "payment mode", "via"}},
		{Field: FieldBillRef, Aliases: []string{"bill no", "bill ref", "receipt", "receipt no", "bill sequence"}},
	}}

	// Expenses is the spending sheet.
	Expenses = Schema{Name: "Expenses", Columns: []Column{
		{Field: FieldDate, Aliases: []string{"date", "paid on", "payment date"}},
		{Field: FieldMonth, Aliases: []string{"month", "month tag"}},
		{Field: FieldHead, Aliases: []string{"head", "expense head", "category"}},
		{Field: FieldDescription, Aliases: []string{"description", "desc", "vendor", "details", "particulars"}},
		{Field: FieldAmount, Aliases: []string{"amount", "amount paid", "paid"}, Required: true},
		{Field: FieldMode, Aliases: []string{"mode", "payment mode", "via"}},
	}}
)

// Override returns a copy of the schema where header is tried first for field.
// It lets a deployment pin a column the aliases would not guess. Fields are
// matched case-insensitively, configuration keys are often lowercased.
func (s Schema) Override(overrides map[string]string) Schema {
	cols := make([]Column, len(s.Columns))
	for i, c := range s.Columns {
		for field, h := range overrides {
			if strings.EqualFold(field, c.Field) && h != "" {
				c.Aliases = append([]string{h}, c.Aliases...)
			}
		}
		cols[i] = c
	}
	s.Columns = cols
	return s
}

// Index maps a field to its column position in a row.
type Index map[string]int

// headerKey is the comparison form of a header: lower case letters and digits.
func headerKey(h string) string {
	var b strings.Builder
	for _, r := range h {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Resolve locates every column of the schema in header.
//
// An alias equal to a header wins, then the first header containing an alias.
// A column is used by one field only. A missing required field is an error.
func (s Schema) Resolve(header []string) (Index, error) {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = headerKey(h)
	}
	taken := make(map[int]bool)
	ix := make(Index)

	find := func(match func(key, alias string) bool, c Column) (int, bool) {
		for _, alias := range c.Aliases {
			a := headerKey(alias)
			for i, k := range keys {
				if !taken[i] && k != "" && match(k, a) {
					return i, true
				}
			}
		}
		return 0, false
	}

	// exact matches first for every field, so that "Months Paid" is not taken by a
	// loose "paid" alias before months is resolved.
	for _, c := range s.Columns {
		if i, ok := find(func(k, a string) bool { return k == a }, c); ok {
			ix[c.Field] = i
			taken[i] = true
		}
	}
	for _, c := range s.Columns {
		if _, ok := ix[c.Field]; ok {
			continue
		}
		if i, ok := find(strings.Contains, c); ok {
			ix[c.Field] = i
			taken[i] = true
		}
	}

	for _, c := range s.Columns {
		if _, ok := ix[c.Field]; c.Required && !ok {
			return nil, fmt.Errorf("%s: missing column %q in header %q", s.Name, c.Field, header)
		}
	}
	return ix, nil
}

// Cell returns the raw cell of field in row, nil if the field or the cell is missing.
func (ix Index) Cell(row []any, field string) any {
	i, ok := ix[field]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

// Text returns the cell of field as trimmed text.
func (ix Index) Text(row []any, field string) string {
	switch v := ix.Cell(row, field).(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Date returns the cell of field as a date, the zero date if it does not parse.
func (ix Index) Date(row []any, field string) dues.Date {
	s := ix.Text(row, field)
	if s == "" {
		return dues.Date{}
	}
	d, err := dues.ParseDate(s)
	if err != nil {
		return dues.Date{}
	}
	return d
}

// blank reports whether every cell of row is empty.
func blank(row []any) bool {
	for _, c := range row {
		if c == nil {
			continue
		}
		if s, ok := c.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		return false
	}
	return true
}
