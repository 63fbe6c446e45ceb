// Package pgstore keeps the dues records in Postgres.
//
// Payments and expenses are only ever inserted, and read back in insertion
// order. Amounts are stored as text, as received, so that a malformed cell
// survives and is parsed at read time like any other source.
package pgstore

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/etnz/dues"
)

//go:embed schema.sql
var schema string

// Store is a dues.Store on a Postgres database.
type Store struct {
	db *sql.DB
}

var (
	_ dues.Store          = (*Store)(nil)
	_ dues.RosterImporter = (*Store)(nil)
)

// Open opens the database at dsn with the pgx driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(15 * time.Minute)
	return &Store{db: db}, nil
}

// New returns a Store on an already opened database.
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return dues.Unavailable("migrate", err)
	}
	return nil
}

// amountText is the stored form of a raw amount: strings as received, anything
// else through dues.ParseAmount. nil stays NULL.
func amountText(raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return v
	default:
		return dues.ParseAmount(v).String()
	}
}

// dateParam is the stored form of a date, NULL for the zero date.
func dateParam(d dues.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

// scanDate parses a date read with to_char, the zero date for NULL.
func scanDate(s sql.NullString) (dues.Date, error) {
	if !s.Valid || s.String == "" {
		return dues.Date{}, nil
	}
	return dues.ParseDate(s.String)
}

// scanAmount returns the raw amount, nil for NULL.
func scanAmount(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	return s.String
}

func (s *Store) Roster(ctx context.Context) ([]dues.Unit, error) {
	rows, err := s.db.QueryContext(ctx, `select unit, owner, opening_balance from units order by position`)
	if err != nil {
		return nil, dues.Unavailable("read roster", err)
	}
	defer rows.Close()

	units := []dues.Unit{}
	for rows.Next() {
		var u dues.Unit
		var opening sql.NullString
		if err := rows.Scan(&u.ID, &u.Owner, &opening); err != nil {
			return nil, dues.Unavailable("read roster", err)
		}
		u.OpeningBalance = dues.ParseAmount(scanAmount(opening))
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, dues.Unavailable("read roster", err)
	}
	return units, nil
}

// ImportRoster replaces the whole roster in a single transaction.
func (s *Store) ImportRoster(ctx context.Context, units []dues.Unit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dues.Unavailable("import roster", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `delete from units`); err != nil {
		return dues.Unavailable("import roster", err)
	}
	for i, u := range units {
		if _, err := tx.ExecContext(ctx,
			`insert into units(position, unit, owner, opening_balance) values ($1,$2,$3,$4)`,
			i, u.ID, u.Owner, u.OpeningBalance.String(),
		); err != nil {
			return dues.Unavailable("import roster", fmt.Errorf("unit %q: %w", u.ID, err))
		}
	}
	if err := tx.Commit(); err != nil {
		return dues.Unavailable("import roster", err)
	}
	return nil
}

func (s *Store) Payments(ctx context.Context) ([]dues.PaymentRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, unit, to_char(paid_on, 'YYYY-MM-DD'), amount, mode, months, bill_ref
		from payments order by seq`)
	if err != nil {
		return nil, dues.Unavailable("read payments", err)
	}
	defer rows.Close()

	payments := []dues.PaymentRecord{}
	for rows.Next() {
		var p dues.PaymentRecord
		var paidOn, amount sql.NullString
		if err := rows.Scan(&p.ID, &p.Unit, &paidOn, &amount, &p.Mode, &p.Months, &p.BillRef); err != nil {
			return nil, dues.Unavailable("read payments", err)
		}
		if p.PaidAt, err = scanDate(paidOn); err != nil {
			return nil, dues.Unavailable("read payments", err)
		}
		p.Amount = scanAmount(amount)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dues.Unavailable("read payments", err)
	}
	return payments, nil
}

func (s *Store) AppendPayment(ctx context.Context, rec dues.PaymentRecord) error {
	_, err := s.db.ExecContext(ctx, `
		insert into payments(id, unit, paid_on, amount, mode, months, bill_ref)
		values ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, rec.Unit, dateParam(rec.PaidAt), amountText(rec.Amount), rec.Mode, rec.Months, rec.BillRef,
	)
	return dues.Unavailable("append payment", err)
}

func (s *Store) Expenses(ctx context.Context) ([]dues.ExpenseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, to_char(paid_on, 'YYYY-MM-DD'), month, head, description, amount, mode
		from expenses order by seq`)
	if err != nil {
		return nil, dues.Unavailable("read expenses", err)
	}
	defer rows.Close()

	expenses := []dues.ExpenseRecord{}
	for rows.Next() {
		var e dues.ExpenseRecord
		var paidOn, amount sql.NullString
		if err := rows.Scan(&e.ID, &paidOn, &e.Month, &e.Head, &e.Description, &amount, &e.Mode); err != nil {
			return nil, dues.Unavailable("read expenses", err)
		}
		if e.PaidAt, err = scanDate(paidOn); err != nil {
			return nil, dues.Unavailable("read expenses", err)
		}
		e.Amount = scanAmount(amount)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dues.Unavailable("read expenses", err)
	}
	return expenses, nil
}

func (s *Store) AppendExpense(ctx context.Context, rec dues.ExpenseRecord) error {
	_, err := s.db.ExecContext(ctx, `
		insert into expenses(id, paid_on, month, head, description, amount, mode)
		values ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, dateParam(rec.PaidAt), rec.Month, rec.Head, rec.Description, amountText(rec.Amount), rec.Mode,
	)
	return dues.Unavailable("append expense", err)
}
