// backend/src/utils/utils.go
package utils

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexFloat is a float64 that tolerates lenient JSON input: numbers,
// numeric strings ("123.45"), null and garbage all decode without error.
// Anything unparseable coerces to 0.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}

	// Plain JSON number
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}

	// Number wrapped in a string, possibly with stray whitespace
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if perr != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat(parsed)
		return nil
	}

	// Not a number and not a string: coerce to zero rather than failing the
	// whole payload.
	*f = 0
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}

// Float64 returns the underlying value.
func (f FlexFloat) Float64() float64 {
	return float64(f)
}
