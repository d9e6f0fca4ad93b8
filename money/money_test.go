// ABOUTME: Tests for money parsing and formatting
// ABOUTME: Covers separators, suffixes, malformed input and idempotence
package money

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Cents
	}{
		{"$120,000", 12000000},
		{"120000", 12000000},
		{" $ 50,000.50 ", 5000050},
		{"USD 1,000", 100000},
		{"€2.500", 250},
		{"120k", 12000000},
		{"1.5M", 150000000},
		{"2b", 200000000000},
		{"12.346", 1235},
		{"", 0},
		{"   ", 0},
		{"n/a", 0},
		{"TBD", 0},
		{"-500", 0},
		{"$-5", 0},
		{"NaN", 0},
		{"Inf", 0},
		{"1e30", 0},
		{"$", 0},
		{"1e6", 0},
		{"0x1p20", 0},
		{"1usd5", 0},
		{"1.2.3", 0},
		{"+500", 0},
		{".", 0},
		{"k", 0},
		{"50,000 USD", 5000000},
		{"1.5m eur", 150000000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestParseIsIdempotent(t *testing.T) {
	inputs := []string{"$120,000", "12.345", "1.5M", "garbage", "", "0.1", "99.999", "7"}
	for _, in := range inputs {
		first := Parse(in)
		assert.Equal(t, first, Parse(first.String()), "String round trip for %q", in)

		asFloat := strconv.FormatFloat(first.Dollars(), 'f', -1, 64)
		assert.Equal(t, first, Parse(asFloat), "float round trip for %q", in)
	}
}

func TestParseAny(t *testing.T) {
	assert.Equal(t, Cents(0), ParseAny(nil))
	assert.Equal(t, Cents(12000000), ParseAny("$120,000"))
	assert.Equal(t, Cents(5000000), ParseAny(float64(50000)))
	assert.Equal(t, Cents(700), ParseAny(7))
	assert.Equal(t, Cents(700), ParseAny(int64(7)))
	assert.Equal(t, Cents(150), ParseAny(json.Number("1.5")))
	assert.Equal(t, Cents(0), ParseAny(true))
	assert.Equal(t, Cents(0), ParseAny(Cents(-10)))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$120,000", Format(12000000))
	assert.Equal(t, "$99.50", Format(9950))
	assert.Equal(t, "$0", Format(0))
	assert.Equal(t, "1200.05", Cents(120005).String())
}

func TestFormatShort(t *testing.T) {
	assert.Equal(t, "$120K", FormatShort(12000000))
	assert.Equal(t, "$1.5M", FormatShort(150000000))
	assert.Equal(t, "$999", FormatShort(99900))
}
