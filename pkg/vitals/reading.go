package vitals

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var jsonNull = []byte("null")

// Reading is a numeric vital sign that may arrive as a JSON number, a numeric
// string, null, or not at all. It is parsed once at decode time; Raw keeps the
// original bytes so the record can be re-emitted unchanged.
type Reading struct {
	Raw   json.RawMessage
	Valid bool
	Value float64
}

// Present reports whether the source carried a non-null value.
func (r Reading) Present() bool {
	return len(r.Raw) > 0 && !bytes.Equal(r.Raw, jsonNull)
}

func (r *Reading) UnmarshalJSON(data []byte) error {
	*r = ParseReading(data)
	return nil
}

func (r Reading) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return jsonNull, nil
	}
	return r.Raw, nil
}

// ParseReading never fails: anything that is not a finite number or a string
// holding one yields an invalid reading.
func ParseReading(data []byte) Reading {
	raw := append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	reading := Reading{Raw: raw}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return reading
	}
	reading.Value, reading.Valid = Number(v)
	return reading
}

// Number converts a decoded JSON value (float64 or string) to a float.
func Number(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return finite(val)
	case string:
		return parseFloat(val)
	default:
		return 0, false
	}
}

// parseFloat reads the longest leading decimal number after leading
// whitespace, so "98.6F" and "45 years" yield 98.6 and 45. Hex and the
// non-finite spellings are not numbers here.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	n := numberPrefix(s)
	if n == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

// numberPrefix returns the length of the decimal literal at the start of s:
// optional sign, digits with an optional fraction, then an exponent only when
// it carries at least one digit.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
