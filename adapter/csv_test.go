package adapter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/dues"
	"github.com/shopspring/decimal"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCSVSource(t *testing.T) {
	dir := t.TempDir()
	src := CSVSource{
		OwnersPath: write(t, dir, "owners.csv", "Flat No.,Owner Name,Opening Balance\nA-101,Mehta,500\n,,\nB-202,Rao,\n"),
		CollectionsPath: write(t, dir, "collections.csv", `Date,Flat,Months Paid,Amount Received (₹),Payment Mode
01/03/2025,a101,Jan-Feb 25,"₹4,200",UPI
15/04/2025,A-101,Mar 25,2100,Cash
20/04/2025,B-2O2,Mar 25,2100,Cash
`),
		ExpensesPath: write(t, dir, "expenses.csv", "Date,Month,Head,Description,Amount,Mode\n09/04/2025,Apr,Security,Guard,\"18,000\",Bank Transfer\n"),
	}
	ctx := context.Background()

	units, err := src.Roster(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 2 || units[0].ID != "A-101" || units[1].Owner != "Rao" {
		t.Fatalf("Roster() = %v", units)
	}
	if !units[0].OpeningBalance.Equal(decimal.NewFromInt(500)) || !units[1].OpeningBalance.IsZero() {
		t.Errorf("opening balances = %s, %s", units[0].OpeningBalance, units[1].OpeningBalance)
	}

	policy := dues.BillingPolicy{MonthlyCharge: decimal.NewFromInt(2100), AccrualStart: dues.NewDate(2025, 1, 1), AsOf: dues.NewDate(2026, 2, 1)}
	r, err := dues.BuildReport(ctx, src, policy)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Entries[0].Outstanding.String(); got != "23600" {
		t.Errorf("A-101 outstanding = %s, want 23600", got)
	}
	if len(r.Orphans) != 1 || r.Orphans[0].Unit != "B-2O2" {
		t.Errorf("Orphans = %v, want the B-2O2 typo", r.Orphans)
	}
	if r.Orphans[0].PaidAt != dues.NewDate(2025, 4, 20) {
		t.Errorf("PaidAt = %v", r.Orphans[0].PaidAt)
	}

	expenses, err := src.Expenses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(expenses) != 1 || expenses[0].Value().String() != "18000" || expenses[0].Description != "Guard" {
		t.Errorf("Expenses() = %v", expenses)
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := CSVSource{CollectionsPath: filepath.Join(t.TempDir(), "nope.csv")}
	if _, err := src.Payments(context.Background()); !errors.Is(err, dues.ErrStoreUnavailable) {
		t.Errorf("Payments() error = %v, want ErrStoreUnavailable", err)
	}
	if units, err := src.Roster(context.Background()); err != nil || len(units) != 0 {
		t.Errorf("Roster() without a path = %v, %v", units, err)
	}
}

func TestCSVSource_BadHeader(t *testing.T) {
	src := CSVSource{CollectionsPath: write(t, t.TempDir(), "c.csv", "When,Who\n1,2\n")}
	if _, err := src.Payments(context.Background()); !errors.Is(err, dues.ErrStoreUnavailable) {
		t.Errorf("Payments() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestReadCSV_Ragged(t *testing.T) {
	tb, err := ReadCSV(strings.NewReader("Flat,Owner\nA-101\nB-202,Rao,extra\n"))
	if err != nil {
		t.Fatal(err)
	}
	units, err := tb.Units(Owners)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 2 || units[0].Owner != "" || units[1].Owner != "Rao" {
		t.Errorf("Units() = %v", units)
	}
}
