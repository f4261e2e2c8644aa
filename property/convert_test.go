package property

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedString string

func TestFromAnyScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Bool(true)},
		{"int", 7, Int(7)},
		{"int8", int8(-3), Int(-3)},
		{"uint16", uint16(9), Int(9)},
		{"float32", float32(0.5), Float(0.5)},
		{"float64", 2.25, Float(2.25)},
		{"string", "bar", Str("bar")},
		{"named string", namedString("baz"), Str("baz")},
		{"bytes", []byte("raw"), Str("raw")},
		{"value", Int(3), Int(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestFromAnyArrays(t *testing.T) {
	got, err := FromAny(map[string]any{
		"b": []string{"x", "y"},
		"a": map[string]int{"n": 1},
	})
	require.NoError(t, err)

	want := Array(
		Entry{Key: "a", Value: Array(Entry{Key: "n", Value: Int(1)})},
		Entry{Key: "b", Value: List(Str("x"), Str("y"))},
	)
	assert.True(t, want.Equal(got), "got %s", got)
}

func TestFromAnyMap(t *testing.T) {
	m := NewMap()
	m.Set("z", Int(1))
	m.Set("a", Int(2))

	got, err := FromAny(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, []string{got.Entries()[0].Key, got.Entries()[1].Key})
}

func TestFromAnyRejects(t *testing.T) {
	type opaque struct{ X int }

	tests := []struct {
		name string
		in   any
		path string
	}{
		{"struct", opaque{X: 1}, ""},
		{"pointer", &opaque{}, ""},
		{"nested struct", []any{"ok", opaque{}}, "[1]"},
		{"channel in map", map[string]any{"ch": make(chan int)}, "[ch]"},
		{"int keys", map[int]string{1: "a"}, ""},
		{"empty key", map[string]any{"": 1}, ""},
		{"overflow", uint64(math.MaxUint64), ""},
		{"func", func() {}, ""},
		{"invalid value", Array(Entry{Key: "", Value: Int(1)}), ""},
		{"duplicate keys", Array(Entry{Key: "a", Value: Int(1)}, Entry{Key: "a", Value: Int(2)}), ""},
		{"nil map pointer", (*Map)(nil), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromAny(tt.in)
			require.Error(t, err)

			var ive *InvalidValueError
			require.True(t, errors.As(err, &ive))
			assert.Equal(t, tt.path, ive.Path)
		})
	}
}

func TestToAny(t *testing.T) {
	v := Array(
		Entry{Key: "list", Value: List(Int(1), Str("two"))},
		Entry{Key: "null", Value: Null()},
		Entry{Key: "f", Value: Float(1.5)},
	)

	assert.Equal(t, map[string]any{
		"list": []any{int64(1), "two"},
		"null": nil,
		"f":    1.5,
	}, v.ToAny())
}
