package dues

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewDate(t *testing.T) {
	if NewDate(2025, 7, 31).time() != NewDate(2025, 7, 31).time() {
		t.Error("the same day gives two different times")
	}
	if got := NewDate(2025, 13, 1); got != NewDate(2026, 1, 1) {
		t.Errorf("NewDate(2025, 13, 1) = %v, want 2026-01-01", got)
	}
	if !(Date{}).IsZero() || NewDate(2025, 1, 1).IsZero() {
		t.Error("IsZero is wrong")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", NewDate(2025, time.January, 15), false},
		{"2025-7-1", NewDate(2025, time.July, 1), false},
		{"15/07/2025", NewDate(2025, time.July, 15), false},
		{"1/2/2026", NewDate(2026, time.February, 1), false},
		{"15-07-2025", NewDate(2025, time.July, 15), false},
		{"2025-07", NewDate(2025, time.July, 1), false},
		{"Jan-2025", NewDate(2025, time.January, 1), false},
		{"Feb 2026", NewDate(2026, time.February, 1), false},
		{"January 2025", NewDate(2025, time.January, 1), false},
		{"today", Today(), false},
		{" 0d ", Today(), false},
		{"invalid-date", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && got != tt.expected {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDate_MonthIndex(t *testing.T) {
	a := NewDate(2025, 1, 31)
	b := NewDate(2026, 2, 1)
	if got := b.MonthIndex() - a.MonthIndex(); got != 13 {
		t.Errorf("MonthIndex difference = %d, want 13", got)
	}
	if got := NewDate(2025, 3, 17).StartOfMonth(); got != NewDate(2025, 3, 1) {
		t.Errorf("StartOfMonth() = %v", got)
	}
}

func TestDate_JSON(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected Date
		wantErr  bool
	}{
		{"iso", `"2025-07-15"`, NewDate(2025, 7, 15), false},
		{"short", `"2025-7-1"`, NewDate(2025, 7, 1), false},
		{"empty", `""`, Date{}, false},
		{"day first", `"15/07/2025"`, Date{}, true},
		{"number", `20250715`, Date{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.json), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && d != tt.expected {
				t.Errorf("UnmarshalJSON() = %v, want %v", d, tt.expected)
			}
		})
	}

	data, err := json.Marshal(NewDate(2025, 7, 5))
	if err != nil || string(data) != `"2025-07-05"` {
		t.Errorf("MarshalJSON() = %s, %v", data, err)
	}
	data, _ = json.Marshal(Date{})
	if string(data) != `""` {
		t.Errorf("MarshalJSON(zero) = %s, want \"\"", data)
	}
}
