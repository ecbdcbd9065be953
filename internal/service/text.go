package service

import (
	"bytes"
	"encoding/json"
)

// Text accepts a JSON string. Any other JSON value, null included, leaves
// it unset instead of failing the decode, so the field is reported by
// Validate in its turn.
type Text struct {
	value string
	valid bool
}

func NewText(s string) Text {
	return Text{value: s, valid: true}
}

func (t Text) String() string {
	return t.value
}

// Valid reports whether a JSON string was supplied.
func (t Text) Valid() bool {
	return t.valid
}

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	*t = NewText(s)
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}
