package dues

import "testing"

func TestJournalLine(t *testing.T) {
	t.Run("command only", func(t *testing.T) {
		got, err := newJournalLine(CmdRoster).Bytes()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := `{"command":"roster"}`; string(got) != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("field order", func(t *testing.T) {
		got, err := newJournalLine(CmdPayment).
			Field("unit", "B-202").
			Field("amount", 1000).
			Text("mode", "").
			Text("months", "Jan 25").
			Bytes()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := `{"command":"payment","unit":"B-202","amount":1000,"months":"Jan 25"}`
		if string(got) != want {
			t.Errorf("got %s, want %s", got, want)
		}
	})

	t.Run("encoding error", func(t *testing.T) {
		l := newJournalLine(CmdExpense).Field("bad", make(chan int)).Field("head", "Security")
		if _, err := l.Bytes(); err == nil {
			t.Error("expected an error for an unencodable value")
		}
	})
}
