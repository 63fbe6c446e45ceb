package dues

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeJournal decodes records from a stream of JSONL data, one record per
// line, and returns them in file order.
//
// Numbers are decoded as json.Number so that amounts stay exact.
func DecodeJournal(r io.Reader) (*Journal, error) {
	journal := NewJournal()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024) // a roster line can be long.

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := bytes.TrimSpace(scanner.Bytes())
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify command in %q: %w", line, string(lineBytes), err)
		}

		var rec Record
		var err error
		switch identifier.Command {
		case CmdRoster:
			var tx RosterImport
			err = decodeLine(lineBytes, &tx)
			rec = tx
		case CmdPayment:
			var tx PaymentRecord
			err = decodeLine(lineBytes, &tx)
			rec = tx
		case CmdExpense:
			var tx ExpenseRecord
			err = decodeLine(lineBytes, &tx)
			rec = tx
		default:
			err = fmt.Errorf("unknown record command: %q", identifier.Command)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		journal.Append(rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return journal, nil
}

// decodeLine unmarshals a single line, keeping numbers as json.Number.
func decodeLine(line []byte, v any) error {
	// Each record type has its own MarshalJSON, but a plain field decoding.
	// The "command" key is simply ignored.
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	return dec.Decode(v)
}

// EncodeRecord marshals a single record to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func EncodeRecord(w io.Writer, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", rec.What(), err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write %s record: %w", rec.What(), err)
	}
	return nil
}

// EncodeJournal writes every record of the journal in append order.
func EncodeJournal(w io.Writer, journal *Journal) error {
	for _, rec := range journal.Records() {
		if err := EncodeRecord(w, rec); err != nil {
			return err
		}
	}
	return nil
}
