package dues

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a Store backed by a JSONL journal file.
//
// Every read decodes a fresh snapshot of the file, and every append opens the
// file in append mode and writes a single line: the file is the only state. A
// missing file is an empty journal and is created on first append.
type FileStore struct {
	path string
	mu   sync.Mutex // serializes appends within this process.
}

// OpenFileStore returns a FileStore on path. It does not touch the file.
func OpenFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the journal file path.
func (s *FileStore) Path() string { return s.path }

// Load decodes the whole journal file.
func (s *FileStore) Load(ctx context.Context) (*Journal, error) {
	if err := ctx.Err(); err != nil {
		return nil, Unavailable("read journal", err)
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewJournal(), nil
	}
	if err != nil {
		return nil, Unavailable("read journal", fmt.Errorf("could not open journal file %q: %w", s.path, err))
	}
	defer f.Close()

	j, err := DecodeJournal(f)
	if err != nil {
		return nil, Unavailable("read journal", fmt.Errorf("could not decode journal file %q: %w", s.path, err))
	}
	return j, nil
}

// Snapshot loads the file once, roster and payments of the result are
// consistent with each other.
func (s *FileStore) Snapshot(ctx context.Context) (Source, error) {
	j, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (s *FileStore) Roster(ctx context.Context) ([]Unit, error) {
	j, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return j.Units(), nil
}

func (s *FileStore) Payments(ctx context.Context) ([]PaymentRecord, error) {
	j, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return j.PaymentRecords(), nil
}

func (s *FileStore) Expenses(ctx context.Context) ([]ExpenseRecord, error) {
	j, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return j.ExpenseRecords(), nil
}

func (s *FileStore) AppendPayment(ctx context.Context, rec PaymentRecord) error {
	return s.append(ctx, "append payment", rec)
}

func (s *FileStore) AppendExpense(ctx context.Context, rec ExpenseRecord) error {
	return s.append(ctx, "append expense", rec)
}

// ImportRoster appends a roster import dated today, replacing the roster.
func (s *FileStore) ImportRoster(ctx context.Context, units []Unit) error {
	return s.append(ctx, "import roster", RosterImport{Date: Today(), Units: units})
}

// append writes rec as a single line at the end of the file.
func (s *FileStore) append(ctx context.Context, op string, rec Record) error {
	if err := ctx.Err(); err != nil {
		return Unavailable(op, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure the directory for the journal file exists.
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Unavailable(op, fmt.Errorf("could not create directory for journal %q: %w", s.path, err))
		}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return Unavailable(op, fmt.Errorf("error opening journal file %q for writing: %w", s.path, err))
	}
	if err := EncodeRecord(f, rec); err != nil {
		f.Close()
		return Unavailable(op, err)
	}
	if err := f.Close(); err != nil {
		return Unavailable(op, err)
	}
	return nil
}

var (
	_ Store          = (*FileStore)(nil)
	_ RosterImporter = (*FileStore)(nil)
	_ Snapshotter    = (*FileStore)(nil)
)
