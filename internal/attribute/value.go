package attribute

import (
	"encoding/json"
	"strconv"

	"github.com/bazarlab/marketplace-service/internal/model"
)

// Value is a coerced attribute value in canonical form. Only the accessor
// matching Type is meaningful; there is no untyped escape hatch.
type Value struct {
	typ     model.AttributeType
	text    string
	number  float64
	boolean bool
}

func TextValue(s string) Value    { return Value{typ: model.AttributeText, text: s} }
func ChoiceValue(s string) Value  { return Value{typ: model.AttributeChoice, text: s} }
func NumberValue(f float64) Value { return Value{typ: model.AttributeNumber, number: f} }
func BooleanValue(b bool) Value   { return Value{typ: model.AttributeBoolean, boolean: b} }

func (v Value) Type() model.AttributeType { return v.typ }
func (v Value) Text() string              { return v.text }
func (v Value) Number() float64           { return v.number }
func (v Value) Bool() bool                { return v.boolean }

// Raw re-encodes the canonical value as client input. Coercing it again
// yields the same Value.
func (v Value) Raw() RawValue {
	switch v.typ {
	case model.AttributeNumber:
		return NewRawValue([]byte(strconv.FormatFloat(v.number, 'g', -1, 64)))
	case model.AttributeBoolean:
		return NewRawValue([]byte(strconv.FormatBool(v.boolean)))
	default:
		return RawText(v.text)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case model.AttributeNumber:
		return json.Marshal(v.number)
	case model.AttributeBoolean:
		return json.Marshal(v.boolean)
	default:
		return json.Marshal(v.text)
	}
}

// Coerced is one validated {key, value} pair ready for storage.
type Coerced struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

// ToListingAttribute maps the value onto the typed storage columns.
func (c Coerced) ToListingAttribute(listingID string) model.ListingAttribute {
	la := model.ListingAttribute{ListingID: listingID, Key: c.Key, Type: c.Value.typ}
	switch c.Value.typ {
	case model.AttributeNumber:
		n := c.Value.number
		la.ValueNumber = &n
	case model.AttributeBoolean:
		b := c.Value.boolean
		la.ValueBool = &b
	default:
		s := c.Value.text
		la.ValueText = &s
	}
	return la
}
