package property

import (
	"math"
	"strconv"
)

// Value is a property value: null, bool, int, float, string or array.
// The zero Value is Null.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	float   float64
	str     string
	entries []Entry
}

// Entry is a single keyed element of an array Value.
type Entry struct {
	Key   string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, integer: i} }

// Float returns a floating-point value.
func Float(f float64) Value { return Value{kind: KindFloat, float: f} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Array returns an array value holding a copy of entries.
// Keys are not validated here; see Validate.
func Array(entries ...Entry) Value {
	return Value{kind: KindArray, entries: append([]Entry(nil), entries...)}
}

// List returns a list-like array whose keys are "0", "1", ...
func List(values ...Value) Value {
	entries := make([]Entry, len(values))
	for i, v := range values {
		entries[i] = Entry{Key: strconv.Itoa(i), Value: v}
	}

	return Value{kind: KindArray, entries: entries}
}

// EmptyArray returns an array with no entries.
func EmptyArray() Value { return Value{kind: KindArray} }

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsArray reports whether v is an array.
func (v Value) IsArray() bool { return v.kind == KindArray }

// IsScalar reports whether v is a bool, int, float or string.
func (v Value) IsScalar() bool { return v.kind.IsScalar() }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.boolean, v.kind == KindBool }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.integer, v.kind == KindInt }

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) { return v.float, v.kind == KindFloat }

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// Text returns the textual form used when v is interpolated into a string.
// It reports false for null and array values.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.boolean), true
	case KindInt:
		return strconv.FormatInt(v.integer, 10), true
	case KindFloat:
		return formatFloat(v.float), true
	case KindString:
		return v.str, true
	default:
		return "", false
	}
}

// Len returns the number of entries of an array, or 0 for other kinds.
func (v Value) Len() int { return len(v.entries) }

// Entries returns a copy of the entries of an array.
func (v Value) Entries() []Entry {
	if v.kind != KindArray {
		return nil
	}

	return append([]Entry(nil), v.entries...)
}

// Lookup returns the element stored under key in an array.
func (v Value) Lookup(key string) (Value, bool) {
	if i := v.indexOf(key); i >= 0 {
		return v.entries[i].Value, true
	}

	return Value{}, false
}

// With returns a copy of the array v with key set to elem. An existing entry
// keeps its position; a new one is appended. v itself is left untouched.
// Calling With on a non-array value returns v unchanged.
func (v Value) With(key string, elem Value) Value {
	if v.kind != KindArray {
		return v
	}

	i := v.indexOf(key)
	if i < 0 {
		entries := make([]Entry, len(v.entries), len(v.entries)+1)
		copy(entries, v.entries)

		return Value{kind: KindArray, entries: append(entries, Entry{Key: key, Value: elem})}
	}

	entries := append([]Entry(nil), v.entries...)
	entries[i].Value = elem

	return Value{kind: KindArray, entries: entries}
}

// IsList reports whether v is an array whose keys are exactly "0".."n-1" in
// order. The empty array is a list.
func (v Value) IsList() bool {
	if v.kind != KindArray {
		return false
	}

	for i, e := range v.entries {
		if e.Key != strconv.Itoa(i) {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.kind != KindArray {
		return v
	}

	entries := make([]Entry, len(v.entries))
	for i, e := range v.entries {
		entries[i] = Entry{Key: e.Key, Value: e.Value.Clone()}
	}

	return Value{kind: KindArray, entries: entries}
}

// Equal reports whether v and o have the same kind and content. Array entries
// are compared in order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolean == o.boolean
	case KindInt:
		return v.integer == o.integer
	case KindFloat:
		return v.float == o.float || (math.IsNaN(v.float) && math.IsNaN(o.float))
	case KindString:
		return v.str == o.str
	case KindArray:
		if len(v.entries) != len(o.entries) {
			return false
		}

		for i := range v.entries {
			if v.entries[i].Key != o.entries[i].Key || !v.entries[i].Value.Equal(o.entries[i].Value) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// String renders v as compact JSON for diagnostics.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return v.kind.String() + "(?)"
	}

	return string(b)
}

func (v Value) indexOf(key string) int {
	for i := range v.entries {
		if v.entries[i].Key == key {
			return i
		}
	}

	return -1
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
