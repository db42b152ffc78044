package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1234.5, "1.234,50"},
		{0, "0,00"},
		{0.5, "0,50"},
		{999, "999,00"},
		{1234567.891, "1.234.567,89"},
		{-1234.5, "-1.234,50"},
		{math.NaN(), "0,00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Format(tc.in), "Format(%v)", tc.in)
	}
}

func TestFormatWithCode(t *testing.T) {
	assert.Equal(t, "10.980,00 TRY", FormatWithCode(10980, "TRY"))
	assert.Equal(t, "10.980,00", FormatWithCode(10980, ""))
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"turkish grouping and decimal", "1.234,50", 1234.5},
		{"english grouping and decimal", "1,234.50", 1234.5},
		{"plain dot decimal", "1234.5", 1234.5},
		{"plain comma decimal", "1234,5", 1234.5},
		{"lone dot with three digits is grouping", "1.234", 1234},
		{"multiple dots are grouping", "1.234.567", 1234567},
		{"multiple commas are grouping", "1,234,567", 1234567},
		{"currency suffix", "1.234,50 TL", 1234.5},
		{"currency symbol", "₺ 42,53", 42.53},
		{"negative", "-12,5", -12.5},
		{"negative with currency prefix", "₺ -1.234,50", -1234.5},
		{"currency code prefix", "USD1,000.25", 1000.25},
		{"space grouping", "1 234,50", 1234.5},
		{"apostrophe grouping", "1'234.50", 1234.5},
		{"integer", "42", 42},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.in)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("   ")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse("abc")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Parse("1,2,3.4.5,6")
	assert.ErrorIs(t, err, ErrInvalid)

	for _, in := range []string{"1e5", "12abc3", "4x2 TL", "TL 1-2"} {
		_, err = Parse(in)
		assert.ErrorIs(t, err, ErrInvalid, in)
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	values := []float64{0, 0.01, 1, 12.34, 999.99, 1234.5, 98765.43, 1234567.89, 42.53, 49.58, 53.6}

	for _, v := range values {
		formatted := Format(v)
		parsed, err := Parse(formatted)
		require.NoError(t, err, formatted)
		assert.InDelta(t, v, parsed, 1e-9, formatted)
		assert.Equal(t, formatted, Format(parsed))
	}
}

func TestCoerceNumericOrZero(t *testing.T) {
	assert.Equal(t, 0.0, CoerceNumericOrZero(math.NaN()))
	assert.Equal(t, 0.0, CoerceNumericOrZero(math.Inf(1)))
	assert.Equal(t, 0.0, CoerceNumericOrZero(math.Inf(-1)))
	assert.Equal(t, 0.0, CoerceNumericOrZero(-3))
	assert.Equal(t, 2.5, CoerceNumericOrZero(2.5))
}

func TestParseOrZero(t *testing.T) {
	assert.Equal(t, 0.0, ParseOrZero(""))
	assert.Equal(t, 0.0, ParseOrZero("abc"))
	assert.Equal(t, 0.0, ParseOrZero("-5"))
	assert.InDelta(t, 1234.5, ParseOrZero("1.234,50"), 1e-9)
}

func TestAmountUnmarshalJSON(t *testing.T) {
	var payload struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
		E Amount `json:"e"`
		F Amount `json:"f"`
		G Amount `json:"g"`
	}

	err := json.Unmarshal([]byte(`{"a": 12.5, "b": "1.234,50", "c": null, "d": "not a number", "e": -4, "f": {"x": 1}, "g": "12abc3"}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, Amount(12.5), payload.A)
	assert.InDelta(t, 1234.5, payload.B.Float64(), 1e-9)
	assert.Equal(t, Amount(0), payload.C)
	assert.Equal(t, Amount(0), payload.D)
	assert.Equal(t, Amount(0), payload.E)
	assert.Equal(t, Amount(0), payload.F)
	assert.Equal(t, Amount(0), payload.G)
}
