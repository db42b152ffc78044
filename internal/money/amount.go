package money

import (
	"bytes"
	"encoding/json"
)

// Amount is a non-negative quantity decoded leniently from form payloads. It
// accepts JSON numbers, locale-formatted strings ("1.234,50") and null.
// Anything malformed decodes to 0 instead of failing the whole request.
type Amount float64

func (a Amount) Float64() float64 { return float64(a) }

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*a = 0
			return nil
		}
		*a = Amount(ParseOrZero(s))
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		*a = 0
		return nil
	}
	*a = Amount(CoerceNumericOrZero(f))
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(CoerceNumericOrZero(float64(a)))
}
