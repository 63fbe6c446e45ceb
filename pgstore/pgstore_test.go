package pgstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/etnz/dues"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestStore_Report(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("select unit, owner, opening_balance from units").
		WillReturnRows(sqlmock.NewRows([]string{"unit", "owner", "opening_balance"}).
			AddRow("A-101", "Mehta", "500"))
	mock.ExpectQuery("select id, unit, .* from payments order by seq").
		WillReturnRows(sqlmock.NewRows([]string{"id", "unit", "paid_on", "amount", "mode", "months", "bill_ref"}).
			AddRow("p1", "a101", "2025-03-01", "₹4,200", "UPI", "Jan-Feb 25", "").
			AddRow("p2", "A-101", nil, "2100", "Cash", "", "17").
			AddRow("p3", "B-202", "2025-04-20", nil, "Cash", "", ""))

	policy := dues.BillingPolicy{MonthlyCharge: decimal.NewFromInt(2100), AccrualStart: dues.NewDate(2025, 1, 1), AsOf: dues.NewDate(2026, 2, 1)}
	r, err := dues.BuildReport(context.Background(), s, policy)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if got := r.Entries[0].Outstanding.String(); got != "23600" {
		t.Errorf("Outstanding = %s, want 23600", got)
	}
	if len(r.Orphans) != 1 || r.Orphans[0].Amount != nil {
		t.Errorf("Orphans = %v, want B-202 with a NULL amount", r.Orphans)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStore_AppendPayment(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("insert into payments").
		WithArgs(sqlmock.AnyArg(), "A-101", "2025-03-07", "₹2,100", "UPI", "Mar 25", "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec, err := dues.RecordPayment(context.Background(), s, dues.PaymentRecord{
		Unit: "A-101", PaidAt: dues.NewDate(2025, 3, 7), Amount: "₹2,100", Months: "Mar 25", Mode: "UPI",
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if rec.ID == "" {
		t.Error("RecordPayment did not assign an id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStore_AppendNumericAmount(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("insert into expenses").
		WithArgs("e1", "2025-04-09", "Apr", "Security", "", "18000", "").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.AppendExpense(context.Background(), dues.ExpenseRecord{
		ID: "e1", PaidAt: dues.NewDate(2025, 4, 9), Month: "Apr", Head: "Security", Amount: 18000,
	})
	if err != nil {
		t.Fatalf("AppendExpense: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStore_Unavailable(t *testing.T) {
	s, mock := newMock(t)
	cause := errors.New("connection refused")
	mock.ExpectQuery("from payments").WillReturnError(cause)
	mock.ExpectExec("insert into payments").WillReturnError(cause)

	if _, err := s.Payments(context.Background()); !errors.Is(err, dues.ErrStoreUnavailable) {
		t.Errorf("Payments error = %v, want ErrStoreUnavailable", err)
	}
	_, err := dues.RecordPayment(context.Background(), s, dues.PaymentRecord{Unit: "A-101", Amount: 10})
	if !errors.Is(err, dues.ErrStoreUnavailable) || !errors.Is(err, cause) {
		t.Errorf("RecordPayment error = %v, want ErrStoreUnavailable wrapping the cause", err)
	}
}

func TestStore_ImportRoster(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("delete from units").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("insert into units").WithArgs(0, "A-101", "Mehta", "500").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("insert into units").WithArgs(1, "B-202", "", "0").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.ImportRoster(context.Background(), []dues.Unit{
		{ID: "A-101", Owner: "Mehta", OpeningBalance: decimal.NewFromInt(500)},
		{ID: "B-202"},
	})
	if err != nil {
		t.Fatalf("ImportRoster: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStore_ImportRosterRollback(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("delete from units").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("insert into units").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := s.ImportRoster(context.Background(), []dues.Unit{{ID: "A-101"}})
	if !errors.Is(err, dues.ErrStoreUnavailable) {
		t.Errorf("ImportRoster error = %v, want ErrStoreUnavailable", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
