// Package money formats and parses monetary amounts the way procurement forms display them.
package money

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	ErrEmpty   = errors.New("empty amount")
	ErrInvalid = errors.New("invalid amount")
)

var trPrinter = message.NewPrinter(language.Turkish)

// Format renders v with Turkish grouping and exactly two decimals: 1234.5 -> "1.234,50".
func Format(v float64) string {
	rounded := decimal.NewFromFloat(CoerceFinite(v)).Round(2).InexactFloat64()
	return trPrinter.Sprintf("%.2f", rounded)
}

// FormatWithCode appends the currency code: "1.234,50 USD".
func FormatWithCode(v float64, code string) string {
	if code == "" {
		return Format(v)
	}
	return Format(v) + " " + code
}

// Parse accepts either separator convention. When both '.' and ',' appear, the
// rightmost one is the decimal separator. A lone ',' is decimal. A lone '.' is
// a thousands separator only when exactly three digits follow it.
func Parse(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, ErrEmpty
	}
	cleaned, negative := stripNoise(s)
	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}

	lastDot := strings.LastIndexByte(cleaned, '.')
	lastComma := strings.LastIndexByte(cleaned, ',')
	dots := strings.Count(cleaned, ".")
	commas := strings.Count(cleaned, ",")

	var normalized string
	switch {
	case dots > 0 && commas > 0:
		if lastComma > lastDot {
			normalized = strings.ReplaceAll(cleaned, ".", "")
			normalized = strings.Replace(normalized, ",", ".", 1)
		} else {
			normalized = strings.ReplaceAll(cleaned, ",", "")
		}
	case commas > 1:
		normalized = strings.ReplaceAll(cleaned, ",", "")
	case commas == 1:
		normalized = strings.Replace(cleaned, ",", ".", 1)
	case dots > 1:
		normalized = strings.ReplaceAll(cleaned, ".", "")
	case dots == 1 && len(cleaned)-lastDot-1 == 3 && lastDot > 0:
		normalized = strings.Replace(cleaned, ".", "", 1)
	default:
		normalized = cleaned
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	if negative {
		d = d.Neg()
	}
	return d.InexactFloat64(), nil
}

// stripNoise trims currency symbols, codes and whitespace from both ends, drops
// grouping spaces and apostrophes, and reports a leading minus sign separately.
// Any other character between the digits yields "".
func stripNoise(s string) (string, bool) {
	s = strings.TrimFunc(s, isAffix)
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimLeftFunc(s[1:], isAffix)
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '\'':
		default:
			// A letter or symbol between digits is not a currency affix.
			return "", negative
		}
	}
	return b.String(), negative
}

// isAffix matches the currency codes, symbols and padding allowed around a number.
func isAffix(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsLetter(r) || unicode.Is(unicode.Sc, r)
}
