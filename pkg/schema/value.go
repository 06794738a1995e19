package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type (
	// ValueKind discriminates the scalar kinds a configuration value can hold.
	ValueKind int

	// Value is a tagged scalar. The zero Value is "no value supplied", which
	// is distinct from an empty string or a zero number.
	Value struct {
		kind ValueKind
		str  string
		num  float64
		b    bool
	}

	// Configuration maps property names to their supplied values. An absent
	// key means no value was supplied; it never implicitly equals the schema
	// default.
	Configuration map[string]Value
)

const (
	KindNone ValueKind = iota
	KindString
	KindNumber
	KindBool
)

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }

func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty reports whether the value is absent or an empty string. Zero
// numbers and false booleans are supplied values, not empty ones.
func (v Value) IsEmpty() bool {
	return v.kind == KindNone || (v.kind == KindString && v.str == "")
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Raw returns the widget-facing string form of the value.
func (v Value) Raw() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

func (v Value) Equal(other Value) bool {
	return v == other
}

// ParseValue interprets a string-encoded scalar according to the declared
// data type. Schema defaults and widget edits both arrive string-encoded.
func ParseValue(dt DataType, raw string) (Value, error) {
	switch dt {
	case DataTypeString, DataTypeList:
		return StringValue(raw), nil
	case DataTypeNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a number", raw)
		}
		return NumberValue(n), nil
	case DataTypeBoolean:
		switch raw {
		case "true":
			return BoolValue(true), nil
		case "false":
			return BoolValue(false), nil
		}
		return Value{}, fmt.Errorf("%q is not a boolean", raw)
	}
	return Value{}, fmt.Errorf("unknown data type %q", dt)
}

// DecodeValue converts a scalar decoded from a transport payload (JSON or
// YAML) into a Value.
func DecodeValue(raw any) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return Value{}, nil
	case string:
		return StringValue(val), nil
	case bool:
		return BoolValue(val), nil
	case float64:
		return NumberValue(val), nil
	case int:
		return NumberValue(float64(val)), nil
	case int64:
		return NumberValue(float64(val)), nil
	case json.Number:
		n, err := val.Float64()
		if err != nil {
			return Value{}, err
		}
		return NumberValue(n), nil
	}
	return Value{}, fmt.Errorf("unsupported configuration value %v (%[1]T)", raw)
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNone:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, err := DecodeValue(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindNone:
		return nil, nil
	case KindString:
		return v.str, nil
	case KindNumber:
		return v.num, nil
	case KindBool:
		return v.b, nil
	}
	return nil, fmt.Errorf("unknown value kind %d", v.kind)
}

func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	val, err := DecodeValue(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// Clone returns an independent copy of the configuration.
func (c Configuration) Clone() Configuration {
	if c == nil {
		return Configuration{}
	}
	clone := make(Configuration, len(c))
	for k, v := range c {
		clone[k] = v
	}
	return clone
}

func (c Configuration) Equal(other Configuration) bool {
	if len(c) != len(other) {
		return false
	}
	for k, v := range c {
		if ov, ok := other[k]; !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
