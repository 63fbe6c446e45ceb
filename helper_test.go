package dues

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

// D is a helper for test to create a decimal from a string const.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// assertDecimal fails the test if got is not want.
func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(D(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

// mehta is the roster of the reference scenarios.
func mehta() []Unit {
	return []Unit{{ID: "A-101", Owner: "Mehta", OpeningBalance: D("500")}}
}

// referencePolicy bills 2100 a month from January 2025, evaluated in February 2026.
func referencePolicy() BillingPolicy {
	return BillingPolicy{
		MonthlyCharge: D("2100"),
		AccrualStart:  NewDate(2025, 1, 1),
		AsOf:          NewDate(2026, 2, 10),
	}
}

// num returns s the way DecodeJournal decodes a number.
func num(s string) json.Number { return json.Number(s) }
