// Package phone canonicalizes raw phone input into the single comparable
// key used everywhere phones are stored or looked up (OTP table, customers,
// bills).
package phone

import (
	"errors"
	"strings"
)

// ErrInvalidPhone is the shared sentinel for phone input that fails
// validation, surfaced by every operation that accepts a raw number.
var ErrInvalidPhone = errors.New("invalid phone number")

// transportPrefix is the messaging-gateway scheme marker some clients send
// in front of the number, e.g. "whatsapp:+919876543210".
const transportPrefix = "whatsapp:"

// minDigits is the loose sanity floor for a usable number. This is not
// E.164 validation, just enough to reject obvious garbage.
const minDigits = 8

// Normalizer rewrites raw phone input into canonical form. The zero value
// is unusable; construct with NewNormalizer so the default country code is
// itself normalized.
type Normalizer struct {
	defaultCountryCode string
}

// NewNormalizer returns a Normalizer that prepends defaultCountryCode to
// numbers arriving without one. The code may be given with or without a
// leading "+".
func NewNormalizer(defaultCountryCode string) *Normalizer {
	cc := strings.TrimSpace(defaultCountryCode)
	cc = strings.TrimPrefix(cc, "+")
	kept := make([]rune, 0, len(cc))
	for _, r := range cc {
		if r >= '0' && r <= '9' {
			kept = append(kept, r)
		}
	}
	return &Normalizer{defaultCountryCode: "+" + string(kept)}
}

// Normalize returns the canonical form of raw, or "" when raw is empty or
// carries no digits. The function is idempotent: feeding its own output
// back in yields the same string.
func (n *Normalizer) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if len(s) >= len(transportPrefix) && strings.EqualFold(s[:len(transportPrefix)], transportPrefix) {
		s = s[len(transportPrefix):]
	}

	// Keep digits and a leading "+" only. Suffix markers such as "@c.us"
	// fall out here along with spaces, dashes and parentheses.
	hasPlus := strings.HasPrefix(s, "+")
	digits := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) == 0 {
		return ""
	}

	if hasPlus {
		return "+" + string(digits)
	}

	// No country code supplied: drop trunk zeros, then prepend the default,
	// so "0455123456" with default "+1" becomes "+1455123456".
	rest := strings.TrimLeft(string(digits), "0")
	if rest == "" {
		return ""
	}
	return n.defaultCountryCode + rest
}

// IsValid reports whether raw normalizes to a number with at least
// minDigits digits.
func (n *Normalizer) IsValid(raw string) bool {
	normalized := n.Normalize(raw)
	if normalized == "" {
		return false
	}
	return len(strings.TrimPrefix(normalized, "+")) >= minDigits
}
