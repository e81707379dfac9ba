package attribute

import (
	"bytes"
	"encoding/json"
)

// RawKind classifies an untrusted JSON value before coercion.
type RawKind int

const (
	RawAbsent RawKind = iota
	RawNull
	RawString
	RawNumber
	RawBool
	RawOther // arrays and objects
)

// RawValue holds one client-submitted JSON value exactly as received.
type RawValue struct {
	raw json.RawMessage
}

func NewRawValue(data []byte) RawValue {
	return RawValue{raw: append(json.RawMessage(nil), bytes.TrimSpace(data)...)}
}

// RawText builds a RawValue for a Go string, as if the client sent it.
func RawText(s string) RawValue {
	data, _ := json.Marshal(s)
	return RawValue{raw: data}
}

func (v *RawValue) UnmarshalJSON(data []byte) error {
	*v = NewRawValue(data)
	return nil
}

func (v RawValue) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v RawValue) Kind() RawKind {
	if len(v.raw) == 0 {
		return RawAbsent
	}
	switch v.raw[0] {
	case 'n':
		return RawNull
	case '"':
		return RawString
	case 't', 'f':
		return RawBool
	case '[', '{':
		return RawOther
	default:
		return RawNumber
	}
}

// IsEmpty reports absent, null and "" alike.
func (v RawValue) IsEmpty() bool {
	switch v.Kind() {
	case RawAbsent, RawNull:
		return true
	case RawString:
		s, ok := v.str()
		return ok && s == ""
	}
	return false
}

func (v RawValue) str() (string, bool) {
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// literal is the value rendered as text: strings unquoted, numbers and
// booleans as their JSON literal.
func (v RawValue) literal() (string, bool) {
	switch v.Kind() {
	case RawString:
		return v.str()
	case RawNumber, RawBool:
		return string(v.raw), true
	}
	return "", false
}

// RawAttribute is one {key, value} pair of a listing payload.
type RawAttribute struct {
	Key   string   `json:"key"`
	Value RawValue `json:"value"`
}
