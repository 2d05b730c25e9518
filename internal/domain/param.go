package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ParamKind is the type tag of a tool parameter value.
type ParamKind string

const (
	ParamString  ParamKind = "string"
	ParamNumber  ParamKind = "number"
	ParamBoolean ParamKind = "boolean"
	ParamArray   ParamKind = "array"
	ParamObject  ParamKind = "object"
)

// ParamValue is a tool parameter value. Only the field matching Kind is meaningful.
type ParamValue struct {
	Kind   ParamKind
	Str    string
	Num    float64
	Bool   bool
	Items  []ParamValue
	Fields map[string]ParamValue
}

func StringParam(s string) ParamValue  { return ParamValue{Kind: ParamString, Str: s} }
func NumberParam(n float64) ParamValue { return ParamValue{Kind: ParamNumber, Num: n} }
func BoolParam(b bool) ParamValue      { return ParamValue{Kind: ParamBoolean, Bool: b} }

func ArrayParam(items ...ParamValue) ParamValue {
	return ParamValue{Kind: ParamArray, Items: items}
}

func ObjectParam(fields map[string]ParamValue) ParamValue {
	return ParamValue{Kind: ParamObject, Fields: fields}
}

// Validate checks the value recursively.
func (v ParamValue) Validate() error {
	switch v.Kind {
	case ParamString, ParamBoolean:
		return nil
	case ParamNumber:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return fmt.Errorf("%w: number is not finite", ErrInvalidToolParam)
		}
		return nil
	case ParamArray:
		for i, item := range v.Items {
			if err := item.Validate(); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return nil
	case ParamObject:
		for key, field := range v.Fields {
			if key == "" {
				return fmt.Errorf("%w: empty object key", ErrInvalidToolParam)
			}
			if err := field.Validate(); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidToolParam, v.Kind)
	}
}

// Clone returns a deep copy.
func (v ParamValue) Clone() ParamValue {
	out := v
	if v.Items != nil {
		out.Items = make([]ParamValue, len(v.Items))
		for i, item := range v.Items {
			out.Items[i] = item.Clone()
		}
	}
	if v.Fields != nil {
		out.Fields = make(map[string]ParamValue, len(v.Fields))
		for k, f := range v.Fields {
			out.Fields[k] = f.Clone()
		}
	}
	return out
}

// MarshalJSON encodes the value as plain JSON.
func (v ParamValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ParamString:
		return json.Marshal(v.Str)
	case ParamNumber:
		return json.Marshal(v.Num)
	case ParamBoolean:
		return json.Marshal(v.Bool)
	case ParamArray:
		if v.Items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Items)
	case ParamObject:
		if v.Fields == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Fields)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidToolParam, v.Kind)
	}
}

// UnmarshalJSON infers the kind from the JSON token. null is rejected.
func (v *ParamValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToolParam, err)
	}

	parsed, err := paramFromRaw(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func paramFromRaw(raw any) (ParamValue, error) {
	switch t := raw.(type) {
	case string:
		return StringParam(t), nil
	case bool:
		return BoolParam(t), nil
	case json.Number:
		return numberFromJSON(t)
	case []any:
		if len(t) == 0 {
			return ArrayParam(), nil
		}
		items := make([]ParamValue, 0, len(t))
		for i, elem := range t {
			item, err := paramFromRaw(elem)
			if err != nil {
				return ParamValue{}, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, item)
		}
		return ArrayParam(items...), nil
	case map[string]any:
		if len(t) == 0 {
			return ObjectParam(nil), nil
		}
		fields := make(map[string]ParamValue, len(t))
		for k, elem := range t {
			field, err := paramFromRaw(elem)
			if err != nil {
				return ParamValue{}, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = field
		}
		return ObjectParam(fields), nil
	case nil:
		return ParamValue{}, fmt.Errorf("%w: null is not a valid value", ErrInvalidToolParam)
	default:
		return ParamValue{}, fmt.Errorf("%w: unsupported value %T", ErrInvalidToolParam, raw)
	}
}

// maxExactInt is the largest magnitude below which every integer is exact in a float64.
const maxExactInt = 1 << 53

// numberFromJSON parses a JSON number. Integer literals that a float64 cannot hold
// exactly are rejected instead of being rounded.
func numberFromJSON(num json.Number) (ParamValue, error) {
	text := num.String()
	if !strings.ContainsAny(text, ".eE") {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil || n > maxExactInt || n < -maxExactInt {
			return ParamValue{}, fmt.Errorf("%w: integer %s exceeds float64 precision", ErrInvalidToolParam, text)
		}
		return NumberParam(float64(n)), nil
	}

	f, err := num.Float64()
	if err != nil {
		return ParamValue{}, fmt.Errorf("%w: number %s out of range", ErrInvalidToolParam, text)
	}
	return NumberParam(f), nil
}

// ToolParams maps parameter names to values.
type ToolParams map[string]ParamValue

// Validate checks every parameter in key order so errors are deterministic.
func (p ToolParams) Validate() error {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == "" {
			return fmt.Errorf("%w: empty parameter name", ErrInvalidToolParam)
		}
		if err := p[k].Validate(); err != nil {
			return fmt.Errorf("param %q: %w", k, err)
		}
	}
	return nil
}

// Clone returns a deep copy. A nil map stays nil.
func (p ToolParams) Clone() ToolParams {
	if p == nil {
		return nil
	}
	out := make(ToolParams, len(p))
	for k, v := range p {
		out[k] = v.Clone()
	}
	return out
}
