package property

import (
	"iter"
	"slices"
)

// Map is an insertion-ordered mapping from property key to Value.
// The zero Map is empty and ready to use.
type Map struct {
	keys   []string
	values map[string]Value
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// MapOf builds a Map from entries in order; later duplicates overwrite
// earlier ones in place.
func MapOf(entries ...Entry) *Map {
	m := NewMap()
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}

	return m
}

// Len returns the number of keys.
func (m *Map) Len() int { return len(m.keys) }

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set stores v under key. A new key is appended to the order; an existing
// key keeps its position.
func (m *Map) Set(key string, v Value) {
	if m.values == nil {
		m.values = make(map[string]Value)
	}

	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = v
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}

	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })

	return true
}

// Keys returns the keys in order.
func (m *Map) Keys() []string {
	return slices.Clone(m.keys)
}

// All iterates over the entries in order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Entries returns the entries in order.
func (m *Map) Entries() []Entry {
	out := make([]Entry, 0, len(m.keys))
	for k, v := range m.All() {
		out = append(out, Entry{Key: k, Value: v})
	}

	return out
}

// Value returns the map as an array value with the same keys and order.
func (m *Map) Value() Value {
	return Value{kind: KindArray, entries: m.Entries()}
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	out := &Map{
		keys:   slices.Clone(m.keys),
		values: make(map[string]Value, len(m.values)),
	}

	for k, v := range m.values {
		out.values[k] = v.Clone()
	}

	return out
}

// Equal reports whether m and o hold the same keys in the same order with
// equal values.
func (m *Map) Equal(o *Map) bool {
	if m == nil || o == nil {
		return m == o
	}

	if !slices.Equal(m.keys, o.keys) {
		return false
	}

	for _, k := range m.keys {
		if !m.values[k].Equal(o.values[k]) {
			return false
		}
	}

	return true
}

// ToAny converts the map into a map[string]any using Value.ToAny.
func (m *Map) ToAny() map[string]any {
	out := make(map[string]any, len(m.keys))
	for k, v := range m.All() {
		out[k] = v.ToAny()
	}

	return out
}
