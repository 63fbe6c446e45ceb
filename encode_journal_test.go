package dues

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestEncodeRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "payment",
			rec:  PaymentRecord{ID: "01J", Unit: "A-101", PaidAt: NewDate(2025, 3, 1), Amount: "₹4,200", Mode: "upi"},
			want: `{"command":"payment","id":"01J","date":"2025-03-01","unit":"A-101","amount":"₹4,200","mode":"upi"}`,
		},
		{
			name: "payment with a number",
			rec:  PaymentRecord{Unit: "A-101", PaidAt: NewDate(2025, 3, 1), Amount: 2100},
			want: `{"command":"payment","date":"2025-03-01","unit":"A-101","amount":2100}`,
		},
		{
			name: "expense",
			rec:  ExpenseRecord{PaidAt: NewDate(2025, 4, 9), Month: "Apr", Head: "Security", Amount: D("18000")},
			want: `{"command":"expense","date":"2025-04-09","month":"Apr","head":"Security","amount":18000}`,
		},
		{
			name: "roster",
			rec:  RosterImport{Date: NewDate(2025, 1, 1), Units: []Unit{{ID: "A-101", Owner: "Mehta", OpeningBalance: D("500")}}},
			want: `{"command":"roster","date":"2025-01-01","units":[{"unit":"A-101","owner":"Mehta","openingBalance":500}]}`,
		},
		{
			name: "empty roster",
			rec:  RosterImport{Date: NewDate(2025, 1, 1)},
			want: `{"command":"roster","date":"2025-01-01","units":[]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeRecord(&buf, tt.rec); err != nil {
				t.Fatalf("EncodeRecord() unexpected error: %v", err)
			}
			if got := buf.String(); got != tt.want+"\n" {
				t.Errorf("EncodeRecord() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestDecodeJournal(t *testing.T) {
	input := `{"command":"roster","date":"2025-01-01","units":[{"unit":"A-101","owner":"Mehta","openingBalance":500}]}

{"command":"payment","date":"2025-03-01","unit":"a101","amount":"₹4,200"}
{"command":"payment","date":"2025-04-01","unit":"A-101","amount":2100.10}
{"command":"expense","date":"2025-04-09","head":"Security","amount":18000}
`
	j, err := DecodeJournal(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJournal() unexpected error: %v", err)
	}
	if j.Len() != 4 {
		t.Fatalf("DecodeJournal() has %d records, want 4", j.Len())
	}
	units := j.Units()
	if len(units) != 1 || units[0].Owner != "Mehta" {
		t.Fatalf("Units() = %v", units)
	}
	assertDecimal(t, "OpeningBalance", units[0].OpeningBalance, "500")

	payments := j.PaymentRecords()
	if len(payments) != 2 {
		t.Fatalf("PaymentRecords() = %v", payments)
	}
	if n, ok := payments[1].Amount.(json.Number); !ok || n != "2100.10" {
		t.Errorf("numeric amount decoded as %#v, want json.Number(2100.10)", payments[1].Amount)
	}
	assertDecimal(t, "second payment", payments[1].Value(), "2100.1")
	if payments[0].PaidAt != NewDate(2025, 3, 1) {
		t.Errorf("PaidAt = %v", payments[0].PaidAt)
	}
	if e := j.ExpenseRecords(); len(e) != 1 || e[0].Head != "Security" {
		t.Errorf("ExpenseRecords() = %v", e)
	}
}

func TestDecodeJournal_Errors(t *testing.T) {
	tests := map[string]string{
		"not json":        "{not json}\n",
		"unknown command": `{"command":"refund","unit":"A-101"}` + "\n",
		"bad date":        `{"command":"payment","date":"01/03/2025","unit":"A-101","amount":1}` + "\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeJournal(strings.NewReader(input)); err == nil {
				t.Error("DecodeJournal() expected an error")
			}
		})
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	j := NewJournal()
	j.Append(
		RosterImport{Date: NewDate(2025, 1, 1), Units: mehta()},
		PaymentRecord{ID: "p1", Unit: "a101", PaidAt: NewDate(2025, 3, 1), Amount: "₹4,200"},
		PaymentRecord{ID: "p2", Unit: "A-101", PaidAt: NewDate(2025, 4, 1), Amount: 2100},
	)
	var buf bytes.Buffer
	if err := EncodeJournal(&buf, j); err != nil {
		t.Fatal(err)
	}
	got, err := DecodeJournal(&buf)
	if err != nil {
		t.Fatal(err)
	}
	entries := ComputeRosterBalances(got.Units(), got.PaymentRecords(), referencePolicy())
	assertDecimal(t, "Outstanding", entries[0].Outstanding, "23600")
}
