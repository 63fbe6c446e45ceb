package dues

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// textual currency prefixes found in hand typed cells, lower case.
var currencyPrefixes = []string{"rs.", "rs", "inr"}

// plainDecimal is the only number syntax accepted from text. Exponents are
// refused: "1e2000000000" is ten bytes but would expand to billions of digits.
var plainDecimal = regexp.MustCompile(`^\+?(\d+(\.\d*)?|\.\d+)$`)

// ErrNotPlainDecimal is returned by ParseDecimal for anything but digits with
// an optional sign and decimal point.
var ErrNotPlainDecimal = errors.New("not a plain decimal number")

// ParseDecimal parses a plain decimal number such as "2100" or "-12.50".
// Exponent notation is rejected.
func ParseDecimal(s string) (decimal.Decimal, error) {
	digits := strings.TrimPrefix(s, "-")
	if !plainDecimal.MatchString(digits) {
		return decimal.Zero, fmt.Errorf("%q: %w", s, ErrNotPlainDecimal)
	}
	return decimal.NewFromString(s)
}

// ParseAmount converts a loosely typed cell into an amount.
//
// Numbers pass through unchanged. Strings are trimmed, one currency symbol
// ("₹", "$", "Rs." ...) and the thousands separators are removed before
// parsing. Anything else, including nil, "", NaN, exponent notation ("1e5")
// and unparsable text, is zero: a malformed cell must degrade a report, not
// crash it.
//
// A genuine zero and a parse failure are indistinguishable; callers that need
// to know whether a payment exists must look at the record, not its amount.
func ParseAmount(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero
		}
		return *v
	case json.Number:
		return parseAmountString(string(v))
	case string:
		return parseAmountString(v)
	case *string:
		if v == nil {
			return decimal.Zero
		}
		return parseAmountString(*v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v)
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int8:
		return decimal.NewFromInt(int64(v))
	case int16:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint8:
		return decimal.NewFromInt(int64(v))
	case uint16:
		return decimal.NewFromInt(int64(v))
	case uint32:
		return decimal.NewFromInt(int64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	case fmt.Stringer:
		return parseAmountString(v.String())
	default:
		return decimal.Zero
	}
}

func parseAmountString(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}

	s = stripCurrency(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// "-₹500" and "₹-500" are both accepted, "--500" is not.
	if strings.HasPrefix(s, "-") {
		if neg {
			return decimal.Zero
		}
		neg = true
		s = s[1:]
	}

	if !plainDecimal.MatchString(s) {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if neg {
		return v.Neg()
	}
	return v
}

// stripCurrency removes at most one currency marker, either a textual prefix
// or a single currency symbol at either end.
func stripCurrency(s string) string {
	for _, p := range currencyPrefixes {
		if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
			return strings.TrimSpace(s[len(p):])
		}
	}
	if r, size := utf8.DecodeRuneInString(s); unicode.Is(unicode.Sc, r) {
		return strings.TrimSpace(s[size:])
	}
	if r, size := utf8.DecodeLastRuneInString(s); unicode.Is(unicode.Sc, r) {
		return strings.TrimSpace(s[:len(s)-size])
	}
	return s
}
