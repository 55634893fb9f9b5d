package valueobjects

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// DefaultReferenceMarker is the URI scheme Capacities uses for links between objects
const DefaultReferenceMarker = "capacities://"

// PropertyKind identifies the variant held by a PropertyValue
type PropertyKind string

const (
	KindText   PropertyKind = "text"
	KindNumber PropertyKind = "number"
	KindBool   PropertyKind = "bool"
	KindList   PropertyKind = "list"
	KindMap    PropertyKind = "map"
	KindNull   PropertyKind = "null"
)

// PropertyValue is a single value stored in an object's property map.
// The set of implementations is closed: TextValue, NumberValue, BoolValue,
// ListValue, MapValue and NullValue.
type PropertyValue interface {
	Kind() PropertyKind
	isPropertyValue()
}

// TextValue is a string property value
type TextValue string

// NumberValue is a numeric property value
type NumberValue float64

// BoolValue is a boolean property value
type BoolValue bool

// ListValue is an array property value
type ListValue []PropertyValue

// MapValue is a nested object property value
type MapValue map[string]PropertyValue

// NullValue is an explicit JSON null
type NullValue struct{}

func (TextValue) Kind() PropertyKind   { return KindText }
func (NumberValue) Kind() PropertyKind { return KindNumber }
func (BoolValue) Kind() PropertyKind   { return KindBool }
func (ListValue) Kind() PropertyKind   { return KindList }
func (MapValue) Kind() PropertyKind    { return KindMap }
func (NullValue) Kind() PropertyKind   { return KindNull }

func (TextValue) isPropertyValue()   {}
func (NumberValue) isPropertyValue() {}
func (BoolValue) isPropertyValue()   {}
func (ListValue) isPropertyValue()   {}
func (MapValue) isPropertyValue()    {}
func (NullValue) isPropertyValue()   {}

// ReferenceTarget reports whether the text embeds a link carrying marker and,
// if so, returns the target object id (the text after the last slash).
func (t TextValue) ReferenceTarget(marker string) (string, bool) {
	s := string(t)
	if marker == "" || !strings.Contains(s, marker) {
		return "", false
	}
	return s[strings.LastIndex(s, "/")+1:], true
}

// ParsePropertyValue decodes a raw JSON value into its PropertyValue variant
func ParsePropertyValue(data []byte) (PropertyValue, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return NullValue{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid property value: %w", err)
	}
	return FromInterface(raw)
}

// FromInterface converts a decoded JSON value into a PropertyValue
func FromInterface(raw interface{}) (PropertyValue, error) {
	switch v := raw.(type) {
	case nil:
		return NullValue{}, nil
	case string:
		return TextValue(v), nil
	case bool:
		return BoolValue(v), nil
	case float64:
		return NumberValue(v), nil
	case int:
		return NumberValue(float64(v)), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", v.String(), err)
		}
		return NumberValue(f), nil
	case []interface{}:
		list := make(ListValue, 0, len(v))
		for _, item := range v {
			pv, err := FromInterface(item)
			if err != nil {
				return nil, err
			}
			list = append(list, pv)
		}
		return list, nil
	case map[string]interface{}:
		m := make(MapValue, len(v))
		for key, item := range v {
			pv, err := FromInterface(item)
			if err != nil {
				return nil, err
			}
			m[key] = pv
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported property value type %T", raw)
	}
}

// ToInterface converts a PropertyValue back to plain Go values for encoding
func ToInterface(v PropertyValue) interface{} {
	switch pv := v.(type) {
	case TextValue:
		return string(pv)
	case NumberValue:
		return float64(pv)
	case BoolValue:
		return bool(pv)
	case ListValue:
		out := make([]interface{}, len(pv))
		for i, item := range pv {
			out[i] = ToInterface(item)
		}
		return out
	case MapValue:
		out := make(map[string]interface{}, len(pv))
		for key, item := range pv {
			out[key] = ToInterface(item)
		}
		return out
	default:
		return nil
	}
}
