package dues

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateFormat is the ISO-8601 layout dates are written with.
const DateFormat = "2006-01-02"

// SheetDateFormat is the day-first layout of the society spreadsheets.
const SheetDateFormat = "02/01/2006"

// isoLayout also accepts single digit months and days, as in "2025-7-1".
const isoLayout = "2006-1-2"

// lenientLayouts are the layouts ParseDate accepts, in order. Layouts without a
// day resolve to the first of the month.
var lenientLayouts = []string{
	isoLayout,
	"2/1/2006",
	"2-1-2006",
	"2006-1",
	"Jan-2006",
	"Jan 2006",
	"January 2006",
	time.RFC3339,
}

// Date is a calendar day, without time or location.
//
// The zero Date means "no date": it prints and encodes as the empty string.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns the Date of year, month and day, normalized the way
// time.Date does: NewDate(2025, 13, 1) is 2026-01-01.
func NewDate(year int, month time.Month, day int) Date {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y, m, d}
}

// Today returns the current local date.
func Today() Date { return NewDate(time.Now().Date()) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

// Format formats d with a time.Format layout.
func (d Date) Format(layout string) string { return d.time().Format(layout) }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// MonthIndex returns year*12+month, so that the difference of two indexes is
// the number of calendar months between them. The zero Date has index 0.
func (d Date) MonthIndex() int { return d.y*12 + int(d.m) }

// StartOfMonth returns the first day of the month of d.
func (d Date) StartOfMonth() Date { return NewDate(d.y, d.m, 1) }

// ParseDate reads a date typed by a person or exported from a sheet: ISO dates
// ("2025-7-1"), day-first dates ("15/07/2025") and months ("2025-07",
// "Jul 2025"). "today" and "0d" are today.
func ParseDate(str string) (Date, error) {
	str = strings.TrimSpace(str)
	switch strings.ToLower(str) {
	case "today", "0d":
		return Today(), nil
	}
	for _, layout := range lenientLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return NewDate(t.Date()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q, want a date like %q or %q", str, DateFormat, SheetDateFormat)
}

// MustParse is like ParseDate but panics on error.
func MustParse(str string) Date {
	d, err := ParseDate(str)
	if err != nil {
		panic(err)
	}
	return d
}

// UnmarshalJSON reads a journal date. Only ISO dates are accepted there, the
// empty string is the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(isoLayout, str)
	if err != nil {
		return fmt.Errorf("invalid journal date %q, want format %q: %w", str, DateFormat, err)
	}
	*d = NewDate(t.Date())
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

var (
	_ json.Marshaler   = Date{}
	_ json.Unmarshaler = (*Date)(nil)
)
