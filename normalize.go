package dues

import (
	"strings"
	"unicode"
)

// UnitKey is the canonical form of a unit label, used for exact matching of
// payments to units.
type UnitKey string

// IsZero reports whether the key is empty. An empty key never matches anything,
// not even another empty key.
func (k UnitKey) IsZero() bool { return k == "" }

// NormalizeUnit canonicalizes a raw unit label: every rune that is neither a
// letter nor a digit is dropped and the rest is upper-cased, so "A-101",
// " a 101 " and "A101" share the key "A101".
func NormalizeUnit(raw string) UnitKey {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return UnitKey(b.String())
}
