package attribute

import (
	"math"
	"strconv"
	"strings"

	"github.com/bazarlab/marketplace-service/internal/apperr"
	"github.com/bazarlab/marketplace-service/internal/model"
	"github.com/bazarlab/marketplace-service/pkg/i18n"
)

var truthy = map[string]struct{}{"1": {}, "true": {}, "yes": {}, "on": {}}

// CoerceBool never fails: native booleans pass through, strings are true
// when they spell one of the truthy tokens, anything else is false.
func CoerceBool(raw RawValue) bool {
	switch raw.Kind() {
	case RawBool:
		return string(raw.raw) == "true"
	case RawString:
		s, _ := raw.str()
		_, ok := truthy[strings.ToLower(strings.TrimSpace(s))]
		return ok
	}
	return false
}

// CoerceNumber parses a native number or numeric string. Empty input reports
// ok=false without an error.
func CoerceNumber(field string, raw RawValue) (float64, bool, error) {
	if raw.IsEmpty() {
		return 0, false, nil
	}

	var text string
	switch raw.Kind() {
	case RawNumber:
		text = string(raw.raw)
	case RawString:
		s, _ := raw.str()
		text = strings.TrimSpace(s)
	default:
		return 0, false, apperr.NewFieldError(field, i18n.MsgNotNumber, nil)
	}

	// ParseFloat also takes hex mantissas ("0x1p4"); clients only send decimal.
	if strings.ContainsAny(text, "xX") {
		return 0, false, apperr.NewFieldError(field, i18n.MsgNotNumber, nil)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, apperr.NewFieldError(field, i18n.MsgNotNumber, nil)
	}
	return f, true, nil
}

// CoerceText accepts only character data. Null reports ok=false.
func CoerceText(field string, raw RawValue) (string, bool, error) {
	switch raw.Kind() {
	case RawAbsent, RawNull:
		return "", false, nil
	case RawString:
		s, _ := raw.str()
		return s, true, nil
	}
	return "", false, apperr.NewFieldError(field, i18n.MsgNotText, nil)
}

// CoerceChoice matches the value, rendered as a string, against options.
// An exact match wins; otherwise a trimmed case-insensitive match is
// normalized to the option's declared spelling. Empty input reports ok=false.
func CoerceChoice(field string, raw RawValue, options []string) (string, bool, error) {
	if raw.IsEmpty() {
		return "", false, nil
	}
	s, ok := raw.literal()
	if !ok {
		return "", false, choiceError(field, options)
	}
	for _, o := range options {
		if o == s {
			return o, true, nil
		}
	}
	trimmed := strings.TrimSpace(s)
	for _, o := range options {
		if strings.EqualFold(o, trimmed) {
			return o, true, nil
		}
	}
	return "", false, choiceError(field, options)
}

func choiceError(field string, options []string) error {
	return apperr.NewFieldError(field, i18n.MsgInvalidChoice, map[string]any{
		"Allowed": strings.Join(options, ", "),
		"Options": options,
	})
}

// Coerce converts raw into the canonical form for def. ok=false means the
// client supplied no value.
func Coerce(def Definition, raw RawValue) (Value, bool, error) {
	switch def.Type {
	case model.AttributeBoolean:
		if raw.Kind() == RawAbsent {
			return Value{}, false, nil
		}
		return BooleanValue(CoerceBool(raw)), true, nil
	case model.AttributeNumber:
		f, ok, err := CoerceNumber(def.Key, raw)
		if err != nil || !ok {
			return Value{}, false, err
		}
		return NumberValue(f), true, nil
	case model.AttributeText:
		s, ok, err := CoerceText(def.Key, raw)
		if err != nil || !ok {
			return Value{}, false, err
		}
		return TextValue(s), true, nil
	case model.AttributeChoice:
		s, ok, err := CoerceChoice(def.Key, raw, def.Options)
		if err != nil || !ok {
			return Value{}, false, err
		}
		return ChoiceValue(s), true, nil
	}
	return Value{}, false, apperr.NewFieldError(def.Key, i18n.MsgUnknownAttribute, nil)
}

// CoerceAttributes validates a submitted attribute list against schema.
// Duplicate keys keep the last submission. Every failure is collected into
// one *apperr.ValidationError; required attributes without a value are
// reported after the submitted ones. Output follows the schema's key order.
func CoerceAttributes(schema Schema, submitted []RawAttribute) ([]Coerced, error) {
	latest := make(map[string]RawValue, len(submitted))
	order := make([]string, 0, len(submitted))
	for _, a := range submitted {
		if _, seen := latest[a.Key]; !seen {
			order = append(order, a.Key)
		}
		latest[a.Key] = a.Value
	}

	verr := &apperr.ValidationError{}
	values := make(map[string]Value, len(order))
	for _, key := range order {
		def, ok := schema.Lookup(key)
		if !ok {
			verr.Add(apperr.NewFieldError(key, i18n.MsgUnknownAttribute, nil))
			continue
		}
		v, present, err := Coerce(def, latest[key])
		if err != nil {
			verr.Collect(err)
			continue
		}
		if present {
			values[key] = v
		}
	}

	for _, def := range schema.Definitions() {
		if !def.IsRequired {
			continue
		}
		if _, ok := values[def.Key]; !ok {
			verr.Add(apperr.NewFieldError(def.Key, i18n.MsgRequired, nil))
		}
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}

	out := make([]Coerced, 0, len(values))
	for _, def := range schema.Definitions() {
		if v, ok := values[def.Key]; ok {
			out = append(out, Coerced{Key: def.Key, Value: v})
		}
	}
	return out, nil
}
