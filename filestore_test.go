package dues

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s := OpenFileStore(filepath.Join(t.TempDir(), "dues.jsonl"))
	units, err := s.Roster(context.Background())
	if err != nil {
		t.Fatalf("Roster() unexpected error: %v", err)
	}
	if len(units) != 0 {
		t.Errorf("Roster() = %v, want empty", units)
	}
}

func TestFileStore_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "society", "dues.jsonl")
	s := OpenFileStore(path)

	if err := s.ImportRoster(ctx, mehta()); err != nil {
		t.Fatal(err)
	}
	if _, err := RecordPayment(ctx, s, PaymentRecord{Unit: "a101", PaidAt: NewDate(2025, 3, 1), Amount: "₹4,200"}); err != nil {
		t.Fatal(err)
	}
	if _, err := RecordPayment(ctx, s, PaymentRecord{Unit: "A-101", PaidAt: NewDate(2025, 4, 1), Amount: 2100}); err != nil {
		t.Fatal(err)
	}
	if _, err := RecordExpense(ctx, s, ExpenseRecord{PaidAt: NewDate(2025, 4, 9), Head: "Security", Amount: 18000}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 4 {
		t.Errorf("journal file has %d lines, want 4:\n%s", n, data)
	}

	r, err := BuildReport(ctx, s, referencePolicy())
	if err != nil {
		t.Fatal(err)
	}
	assertDecimal(t, "Outstanding", r.Entries[0].Outstanding, "23600")

	expenses, err := s.Expenses(ctx)
	if err != nil || len(expenses) != 1 {
		t.Errorf("Expenses() = %v, %v", expenses, err)
	}
}

func TestFileStore_CorruptFileIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dues.jsonl")
	if err := os.WriteFile(path, []byte("garbage\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := OpenFileStore(path).Payments(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Payments() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestFileStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := OpenFileStore(filepath.Join(t.TempDir(), "dues.jsonl"))
	if err := s.AppendPayment(ctx, PaymentRecord{Unit: "A", Amount: 1}); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("AppendPayment() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestFileStore_Snapshot(t *testing.T) {
	ctx := context.Background()
	s := OpenFileStore(filepath.Join(t.TempDir(), "dues.jsonl"))
	if err := s.ImportRoster(ctx, mehta()); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendPayment(ctx, PaymentRecord{Unit: "A-101", PaidAt: NewDate(2025, 3, 1), Amount: 2100}); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// a payment written after the snapshot is not part of it.
	if err := s.AppendPayment(ctx, PaymentRecord{Unit: "A-101", PaidAt: NewDate(2025, 4, 1), Amount: 2100}); err != nil {
		t.Fatal(err)
	}
	units, _ := snap.Roster(ctx)
	payments, _ := snap.Payments(ctx)
	if len(units) != 1 || len(payments) != 1 {
		t.Errorf("snapshot has %d units and %d payments, want 1 and 1", len(units), len(payments))
	}

	if err := os.WriteFile(s.Path(), []byte("not json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Snapshot(ctx); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Snapshot() on a corrupt file error = %v, want ErrStoreUnavailable", err)
	}
}
