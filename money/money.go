// ABOUTME: Money parsing and formatting for deal values
// ABOUTME: Normalizes currency-like strings into integer cents without ever failing
package money

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Cents is a non-negative monetary amount in cents.
type Cents int64

// maxDollars bounds parsed values so that sums over a portfolio cannot overflow.
const maxDollars = 1e13

var currencyCodes = []string{"usd", "eur", "gbp"}

// Parse converts a currency-like string ("$120,000", "120k", "USD 1.5M") into
// cents. Empty, malformed, negative or out-of-range input yields 0.
func Parse(s string) Cents {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0
	}

	s = trimCurrencyCode(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ',', '_', ' ', '\t', '\u00a0':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch s[len(s)-1] {
	case 'k':
		multiplier = 1e3
		s = s[:len(s)-1]
	case 'm':
		multiplier = 1e6
		s = s[:len(s)-1]
	case 'b':
		multiplier = 1e9
		s = s[:len(s)-1]
	}
	if !isPlainDecimal(s) {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	v *= multiplier
	if v > maxDollars {
		return 0
	}
	return Cents(math.Round(v * 100))
}

// trimCurrencyCode removes one leading or trailing currency code.
func trimCurrencyCode(s string) string {
	for _, code := range currencyCodes {
		if rest, ok := strings.CutPrefix(s, code); ok {
			return strings.TrimSpace(rest)
		}
		if rest, ok := strings.CutSuffix(s, code); ok {
			return strings.TrimSpace(rest)
		}
	}
	return s
}

// isPlainDecimal accepts digits with at most one decimal point and at least
// one digit, so exponent, hex and signed forms never reach ParseFloat.
func isPlainDecimal(s string) bool {
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// ParseAny accepts the loosely typed values found in exported records.
func ParseAny(v any) Cents {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return Parse(x)
	case json.Number:
		return Parse(x.String())
	case float64:
		return Parse(strconv.FormatFloat(x, 'f', -1, 64))
	case float32:
		return Parse(strconv.FormatFloat(float64(x), 'f', -1, 32))
	case int:
		return Parse(strconv.Itoa(x))
	case int64:
		return Parse(strconv.FormatInt(x, 10))
	case Cents:
		if x < 0 {
			return 0
		}
		return x
	}
	return 0
}

// Dollars returns the amount as a float for display and JSON output.
func (c Cents) Dollars() float64 {
	return float64(c) / 100
}

// String renders a plain decimal that Parse maps back to the same amount.
func (c Cents) String() string {
	return fmt.Sprintf("%d.%02d", int64(c)/100, int64(c)%100)
}

// Format renders a display amount such as "$120,000" or "$99.50".
func Format(c Cents) string {
	whole := humanize.Comma(int64(c) / 100)
	if frac := int64(c) % 100; frac != 0 {
		return fmt.Sprintf("$%s.%02d", whole, frac)
	}
	return "$" + whole
}

// FormatShort renders a compact amount such as "$120K" or "$1.2M".
func FormatShort(c Cents) string {
	d := c.Dollars()
	switch {
	case d >= 1e6:
		return fmt.Sprintf("$%.1fM", d/1e6)
	case d >= 1e3:
		return fmt.Sprintf("$%dK", int64(d/1e3))
	}
	return fmt.Sprintf("$%d", int64(d))
}
