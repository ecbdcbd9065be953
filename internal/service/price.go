package service

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Price accepts a JSON number or a string holding one. Anything else is
// remembered as invalid rather than failing the decode, so the field can be
// reported in its place in the validation order.
type Price struct {
	value   float64
	present bool
	valid   bool
}

func NewPrice(v float64) Price {
	return Price{value: v, present: true, valid: true}
}

func (p Price) Value() float64 {
	return p.value
}

// Numeric reports whether a finite number was supplied.
func (p Price) Numeric() bool {
	return p.present && p.valid
}

func (p *Price) UnmarshalJSON(data []byte) error {
	*p = Price{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	p.present = true

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	} else if data[0] != '-' && (data[0] < '0' || data[0] > '9') {
		return nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	p.value = v
	p.valid = true
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Numeric() {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}
