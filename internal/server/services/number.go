package services

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric field as submitted by a client: either a JSON number
// or a string holding one. Conversion happens during validation.
type Number struct {
	raw string
	set bool
}

func NumberOf(s string) Number {
	return Number{raw: s, set: true}
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumberOf(s)
		return nil
	}
	*n = NumberOf(string(b))
	return nil
}

// MarshalJSON always emits the string form, which UnmarshalJSON accepts.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return json.Marshal(n.raw)
}

// Empty reports an absent, null or blank value.
func (n Number) Empty() bool {
	return !n.set || strings.TrimSpace(n.raw) == ""
}

// Int parses a whole number that fits a PostgreSQL INTEGER column.
func (n Number) Int() (int, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(n.raw), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

func (n Number) Float() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(n.raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
