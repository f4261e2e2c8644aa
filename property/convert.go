package property

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
)

// InvalidValueError reports the first element that is not representable as a
// property value.
type InvalidValueError struct {
	// Path locates the element inside the value, e.g. "[servers][0]".
	// It is empty when the value itself is invalid.
	Path string
	// Reason describes what is wrong with the element.
	Reason string
}

func (e *InvalidValueError) Error() string {
	if e.Path == "" {
		return "invalid value: " + e.Reason
	}

	return fmt.Sprintf("invalid value at %s: %s", e.Path, e.Reason)
}

// Validate checks that every array inside v has non-empty, unique keys.
func Validate(v Value) error {
	return validate(v, "")
}

func validate(v Value, path string) error {
	if v.kind < KindNull || int(v.kind) >= KindTotal {
		return &InvalidValueError{Path: path, Reason: "unknown kind " + v.kind.String()}
	}

	if v.kind != KindArray {
		return nil
	}

	seen := make(map[string]struct{}, len(v.entries))

	for _, e := range v.entries {
		if e.Key == "" {
			return &InvalidValueError{Path: path, Reason: "empty array key"}
		}

		if _, dup := seen[e.Key]; dup {
			return &InvalidValueError{Path: path, Reason: fmt.Sprintf("duplicate array key %q", e.Key)}
		}

		seen[e.Key] = struct{}{}

		if err := validate(e.Value, path+"["+e.Key+"]"); err != nil {
			return err
		}
	}

	return nil
}

// FromAny converts a native Go value into a Value.
//
// Accepted inputs are nil, bool, signed and unsigned integers, floats,
// strings (including named string types), Value, *Map, slices and arrays of
// accepted inputs, and maps with string keys. Go maps are unordered, so their
// entries are taken in sorted key order. Anything else, such as structs,
// pointers, channels or functions, is rejected with an *InvalidValueError.
func FromAny(in any) (Value, error) {
	return fromAny(in, "")
}

func fromAny(in any, path string) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		if err := validate(t, path); err != nil {
			return Value{}, err
		}

		return t, nil
	case *Map:
		if t == nil {
			return Value{}, &InvalidValueError{Path: path, Reason: "nil *property.Map"}
		}

		v := t.Value()
		if err := validate(v, path); err != nil {
			return Value{}, err
		}

		return v, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float64:
		return Float(t), nil
	case string:
		return Str(t), nil
	case []byte:
		return Str(string(t)), nil
	case []any:
		values := make([]Value, len(t))

		for i, item := range t {
			v, err := fromAny(item, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return Value{}, err
			}

			values[i] = v
		}

		return List(values...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		return fromKeyed(keys, func(k string) any { return t[k] }, path)
	}

	return fromReflect(reflect.ValueOf(in), path)
}

func fromReflect(rv reflect.Value, path string) (Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, &InvalidValueError{Path: path, Reason: fmt.Sprintf("integer %d overflows int64", u)}
		}

		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return Str(rv.String()), nil
	case reflect.Slice, reflect.Array:
		values := make([]Value, rv.Len())

		for i := range rv.Len() {
			v, err := fromAny(rv.Index(i).Interface(), path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return Value{}, err
			}

			values[i] = v
		}

		return List(values...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, &InvalidValueError{
				Path:   path,
				Reason: fmt.Sprintf("map key type %s is not a string", rv.Type().Key()),
			}
		}

		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())

		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			keys = append(keys, k)
			byKey[k] = iter.Value()
		}

		slices.Sort(keys)

		return fromKeyed(keys, func(k string) any { return byKey[k].Interface() }, path)
	case reflect.Invalid:
		return Null(), nil
	default:
		return Value{}, &InvalidValueError{Path: path, Reason: "unsupported type " + rv.Type().String()}
	}
}

func fromKeyed(keys []string, get func(string) any, path string) (Value, error) {
	entries := make([]Entry, 0, len(keys))

	for _, k := range keys {
		if k == "" {
			return Value{}, &InvalidValueError{Path: path, Reason: "empty array key"}
		}

		v, err := fromAny(get(k), path+"["+k+"]")
		if err != nil {
			return Value{}, err
		}

		entries = append(entries, Entry{Key: k, Value: v})
	}

	return Value{kind: KindArray, entries: entries}, nil
}

// ToAny converts v into plain Go values: nil, bool, int64, float64, string,
// []any for list-like arrays and map[string]any for other arrays.
// Key order of non-list arrays is lost.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindInt:
		return v.integer
	case KindFloat:
		return v.float
	case KindString:
		return v.str
	case KindArray:
		if v.IsList() {
			out := make([]any, len(v.entries))
			for i, e := range v.entries {
				out[i] = e.Value.ToAny()
			}

			return out
		}

		out := make(map[string]any, len(v.entries))
		for _, e := range v.entries {
			out[e.Key] = e.Value.ToAny()
		}

		return out
	default:
		return nil
	}
}
