package builder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"property-builder/property"
)

func TestBuild_Simple(t *testing.T) {
	t.Run("single property", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("foo", "bar"))

		assertResolved(t, mustBuild(t, b), kv{Key: "foo", Value: str("bar")})
	})

	t.Run("properties mapping", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperties(map[string]any{"foo": "bar"}))

		assertResolved(t, mustBuild(t, b), kv{Key: "foo", Value: str("bar")})
	})

	t.Run("list array", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("foo", []string{"bar", "baz"}))

		assertResolved(t, mustBuild(t, b), kv{Key: "foo", Value: property.List(str("bar"), str("baz"))})
	})

	t.Run("keyed array", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("foo", arr(kv{Key: "bar", Value: str("bar")}, kv{Key: "baz", Value: str("baz")})))

		assertResolved(t, mustBuild(t, b), kv{Key: "foo", Value: arr(kv{Key: "bar", Value: str("bar")}, kv{Key: "baz", Value: str("baz")})})
	})
}

func TestBuild_Substitution(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("foo", "bar"))
		require.NoError(t, b.AddProperty("fooref", "{{foo}}"))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "foo", Value: str("bar")},
			kv{Key: "fooref", Value: str("bar")},
		)
	})

	t.Run("nested reference", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("foo", map[string]any{"bar": "baz"}))
		require.NoError(t, b.AddProperty("fooref", "{{foo[bar]}}"))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "foo", Value: arr(kv{Key: "bar", Value: str("baz")})},
			kv{Key: "fooref", Value: str("baz")},
		)
	})

	t.Run("multiple", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("foo", "bar"))
		require.NoError(t, b.AddProperty("baz", "bam"))
		require.NoError(t, b.AddProperty("fooref", "{{foo}} {{baz}}"))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "foo", Value: str("bar")},
			kv{Key: "baz", Value: str("bam")},
			kv{Key: "fooref", Value: str("bar bam")},
		)
	})

	t.Run("forward reference chain", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("url", "http://{{host}}:{{port}}/"))
		require.NoError(t, b.AddProperty("host", "{{name}}.local"))
		require.NoError(t, b.AddProperty("name", "db"))
		require.NoError(t, b.AddProperty("port", 5432))

		m := mustBuild(t, b)
		url, _ := m.Get("url")
		assert.Equal(t, str("http://db.local:5432/"), url)
	})

	t.Run("scalar text forms", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("t", true))
		require.NoError(t, b.AddProperty("f", false))
		require.NoError(t, b.AddProperty("i", -7))
		require.NoError(t, b.AddProperty("x", 0.1))
		require.NoError(t, b.AddProperty("big", 1e21))
		require.NoError(t, b.AddProperty("s", "{{t}} {{f}} {{i}} {{x}} {{big}}"))

		m := mustBuild(t, b)
		s, _ := m.Get("s")
		assert.Equal(t, str("true false -7 0.1 1e+21"), s)
	})

	t.Run("elements of arrays", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("name", "web"))
		require.NoError(t, b.AddProperty("servers", []any{"{{name}}-1", map[string]any{"host": "{{name}}-2"}}))

		m := mustBuild(t, b)
		servers, _ := m.Get("servers")
		assert.True(t, property.List(
			str("web-1"),
			arr(kv{Key: "host", Value: str("web-2")}),
		).Equal(servers), servers.String())
	})

	t.Run("non strings are untouched", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("n", nil))
		require.NoError(t, b.AddProperty("i", 3))
		require.NoError(t, b.AddProperty("s", "{ {not} } {{ nor"))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "n", Value: property.Null()},
			kv{Key: "i", Value: property.Int(3)},
			kv{Key: "s", Value: str("{ {not} } {{ nor")},
		)
	})
}

func TestBuild_Prototype(t *testing.T) {
	t.Run("copy array", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("array", map[string]any{"foo": "bar"}))
		require.NoError(t, b.AddProperty("copy", "{{array}}"))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "array", Value: arr(kv{Key: "foo", Value: str("bar")})},
			kv{Key: "copy", Value: arr(kv{Key: "foo", Value: str("bar")})},
		)
	})

	t.Run("copy null", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("null", nil))
		require.NoError(t, b.AddProperty("string", "{{null}}"))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "null", Value: property.Null()},
			kv{Key: "string", Value: property.Null()},
		)
	})

	t.Run("copies are independent", func(t *testing.T) {
		proto := property.MapOf(
			kv{Key: "prototype", Value: arr(kv{Key: "salutation", Value: str("Hello")}, kv{Key: "subject", Value: str("world")})},
			kv{Key: "array1", Value: str("{{prototype}}")},
			kv{Key: "array1[subject]", Value: str("Newman")},
			kv{Key: "array2", Value: str("{{prototype}}")},
			kv{Key: "array2[salutation]", Value: str("Goodbye")},
			kv{Key: "array2[adjective]", Value: str("cruel")},
			kv{Key: "message", Value: str("{{array2[salutation]}}, {{array2[adjective]}} {{array1[subject]}}")},
		)

		b := New()
		require.NoError(t, b.AddProperties(proto))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "prototype", Value: arr(kv{Key: "salutation", Value: str("Hello")}, kv{Key: "subject", Value: str("world")})},
			kv{Key: "array1", Value: arr(kv{Key: "salutation", Value: str("Hello")}, kv{Key: "subject", Value: str("Newman")})},
			kv{Key: "array2", Value: arr(
				kv{Key: "salutation", Value: str("Goodbye")},
				kv{Key: "subject", Value: str("world")},
				kv{Key: "adjective", Value: str("cruel")},
			)},
			kv{Key: "message", Value: str("Goodbye, cruel Newman")},
		)
	})
}

func TestBuild_NestedAssignment(t *testing.T) {
	t.Run("create string", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("foo[bar]", "baz"))

		assertResolved(t, mustBuild(t, b), kv{Key: "foo", Value: arr(kv{Key: "bar", Value: str("baz")})})
	})

	t.Run("create array", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("foo[bar]", map[string]any{"baz": "bam"}))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "foo", Value: arr(kv{Key: "bar", Value: arr(kv{Key: "baz", Value: str("bam")})})},
		)
	})

	t.Run("create multi level", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("foo[bar][baz]", "bam"))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "foo", Value: arr(kv{Key: "bar", Value: arr(kv{Key: "baz", Value: str("bam")})})},
		)
	})

	t.Run("assign", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("array", map[string]any{"foo": "bar"}))
		require.NoError(t, b.AddProperty("array[foo]", "baz"))

		assertResolved(t, mustBuild(t, b), kv{Key: "array", Value: arr(kv{Key: "foo", Value: str("baz")})})
	})

	t.Run("assign multi level", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("array", map[string]any{"foo": map[string]any{"bar": "baz"}}))
		require.NoError(t, b.AddProperty("array[foo][bar]", "bam"))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "array", Value: arr(kv{Key: "foo", Value: arr(kv{Key: "bar", Value: str("bam")})})},
		)
	})

	t.Run("assign from substitution", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("string", "baz"))
		require.NoError(t, b.AddProperty("array", map[string]any{"foo": "bar"}))
		require.NoError(t, b.AddProperty("array[foo]", "{{string}}"))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "string", Value: str("baz")},
			kv{Key: "array", Value: arr(kv{Key: "foo", Value: str("baz")})},
		)
	})

	t.Run("substitution before assignment", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("array", map[string]any{"foo": "bar"}))
		require.NoError(t, b.AddProperty("string", "{{array[foo]}}"))
		require.NoError(t, b.AddProperty("array[foo]", "baz"))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "array", Value: arr(kv{Key: "foo", Value: str("baz")})},
			kv{Key: "string", Value: str("bar")},
		)
	})

	t.Run("assignment declared before its base", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperties(property.MapOf(
			kv{Key: "copy[subject]", Value: str("Newman")},
			kv{Key: "copy", Value: str("{{proto}}")},
			kv{Key: "proto", Value: arr(kv{Key: "subject", Value: str("world")})},
		)))

		assertResolved(t, mustBuild(t, b),
			kv{Key: "copy", Value: arr(kv{Key: "subject", Value: str("Newman")})},
			kv{Key: "proto", Value: arr(kv{Key: "subject", Value: str("world")})},
		)
	})

	t.Run("list index", func(t *testing.T) {
		b := New()
		require.NoError(t, b.AddProperty("list", []string{"a", "b"}))
		require.NoError(t, b.AddProperty("list[1]", "B"))
		require.NoError(t, b.AddProperty("list[2]", "c"))

		m := mustBuild(t, b)
		list, _ := m.Get("list")
		assert.True(t, property.List(str("a"), str("B"), str("c")).Equal(list), list.String())
	})
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		props []kv
		want  []string
	}{
		{
			name:  "whole string empty key",
			props: []kv{{Key: "string", Value: str("{{}}")}},
			want:  []string{`Error: Substitution with empty key "{{}}"`},
		},
		{
			name:  "interpolated empty key",
			props: []kv{{Key: "string", Value: str(`"{{}}"`)}},
			want:  []string{`Error: Substitution with empty key "{{}}"`},
		},
		{
			name: "interpolated null",
			props: []kv{
				{Key: "null", Value: property.Null()},
				{Key: "string", Value: str(`"{{null}}"`)},
			},
			want: []string{"Error using 'null' in substitution: value is NULL"},
		},
		{
			name: "interpolated array",
			props: []kv{
				{Key: "array", Value: arr(kv{Key: "foo", Value: str("bar")})},
				{Key: "string", Value: str(`"{{array}}"`)},
			},
			want: []string{"Error using 'array' in substitution: value is not scalar"},
		},
		{
			name:  "invalid key",
			props: []kv{{Key: "foo[", Value: str("bar")}},
			want:  []string{"Invalid key: 'foo['"},
		},
		{
			name:  "self reference",
			props: []kv{{Key: "foo", Value: str("{{foo}}")}},
			want:  []string{"Circular reference for key 'foo'"},
		},
		{
			name: "mutual reference",
			props: []kv{
				{Key: "foo", Value: str("{{bar}}")},
				{Key: "bar", Value: str("{{foo}}")},
			},
			want: []string{"Circular reference for key 'foo'", "Circular reference for key 'bar'"},
		},
		{
			name:  "missing reference",
			props: []kv{{Key: "foo", Value: str("{{bar}}")}},
			want:  []string{"Error getting 'bar': 'bar' is not defined"},
		},
		{
			name: "missing multi level reference",
			props: []kv{
				{Key: "array", Value: arr(kv{Key: "bar", Value: str("baz")})},
				{Key: "foo", Value: str("{{array[bam]}}")},
			},
			want: []string{"Error getting 'array[bam]': 'array[bam]' is not defined"},
		},
		{
			name: "assign into scalar",
			props: []kv{
				{Key: "string", Value: str("foo")},
				{Key: "string[bar]", Value: str("baz")},
			},
			want: []string{"Error setting 'string[bar]': 'string' is not an array"},
		},
		{
			name: "assign multi level into scalar",
			props: []kv{
				{Key: "array", Value: arr(kv{Key: "foo", Value: str("bar")})},
				{Key: "array[foo][baz]", Value: str("blah")},
			},
			want: []string{"Error setting 'array[foo][baz]': 'foo' is not an array"},
		},
		{
			name: "index into scalar",
			props: []kv{
				{Key: "string", Value: str("foo")},
				{Key: "bar", Value: str("{{string[foo]}}")},
			},
			want: []string{"Error getting 'string[foo]': 'string' is not an array"},
		},
		{
			name: "index into nested scalar",
			props: []kv{
				{Key: "array", Value: arr(kv{Key: "string", Value: str("foo")})},
				{Key: "bar", Value: str("{{array[string][foo]}}")},
			},
			want: []string{"Error getting 'array[string][foo]': 'array[string]' is not an array"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			require.NoError(t, b.AddProperties(property.MapOf(tt.props...)))

			assert.Equal(t, tt.want, buildErrors(t, b))
		})
	}
}

func TestBuild_OnlyLastPassErrorsKept(t *testing.T) {
	b := New()
	require.NoError(t, b.AddProperty("a", "{{b}}"))
	require.NoError(t, b.AddProperty("b", "{{missing}}"))
	require.NoError(t, b.AddProperty("c", "ok"))

	// a and b fail every pass; c resolves in the first pass only, so the
	// second pass decides the final list.
	assert.Equal(t, []string{
		"Error getting 'missing': 'missing' is not defined",
		"Error getting 'missing': 'missing' is not defined",
	}, buildErrors(t, b))
}

func TestBuild_Diagnostics(t *testing.T) {
	b := New()
	require.NoError(t, b.AddProperty("database", map[string]any{"host": "db"}))
	require.NoError(t, b.AddProperty("dsn", "postgres://{{databse[host]}}"))
	require.NoError(t, b.AddProperty("loop", "{{loop}}"))

	buildErrors(t, b)

	diags := b.Diagnostics()
	require.Len(t, diags.Errors, 2)

	assert.Equal(t, "KeyNotDefined", diags.Errors[0].Code)
	assert.Equal(t, "dsn", diags.Errors[0].Key)
	assert.Equal(t, "Error getting 'databse[host]': 'databse' is not defined", diags.Errors[0].Message)
	assert.Equal(t, []string{"database"}, diags.Errors[0].Suggestions)

	assert.Equal(t, "CircularReference", diags.Errors[1].Code)
	assert.Equal(t, "loop", diags.Errors[1].Key)
	assert.Empty(t, diags.Errors[1].Suggestions)

	// The returned value is a copy.
	diags.Errors[0].Message = "changed"
	assert.Equal(t, "Error getting 'databse[host]': 'databse' is not defined", b.Errors()[0])
}

func TestBuild_SuggestionsDisabled(t *testing.T) {
	b := New(WithConfig(Config{}))
	require.NoError(t, b.AddProperty("database", "x"))
	require.NoError(t, b.AddProperty("dsn", "{{databse}}"))

	buildErrors(t, b)
	assert.Empty(t, b.Diagnostics().Errors[0].Suggestions)
}

func TestBuild_Idempotent(t *testing.T) {
	b := New()
	require.NoError(t, b.AddProperty("a", map[string]any{"x": 1.5, "y": []any{true, nil}}))
	require.NoError(t, b.AddProperty("b", "plain"))

	first := mustBuild(t, b)
	second := mustBuild(t, b)
	assert.True(t, first.Equal(second))

	// Feeding a resolved map back in yields the same map.
	again := New()
	require.NoError(t, again.AddProperties(first))
	assert.True(t, first.Equal(mustBuild(t, again)))
}

func TestBuild_ResetsErrors(t *testing.T) {
	b := New()
	require.NoError(t, b.AddProperty("foo", "{{bar}}"))
	assert.Len(t, buildErrors(t, b), 1)

	require.NoError(t, b.AddProperty("bar", "baz"))

	m := mustBuild(t, b)
	foo, _ := m.Get("foo")
	assert.Equal(t, str("baz"), foo)
}

func TestBuild_ResultIsCopy(t *testing.T) {
	b := New()
	require.NoError(t, b.AddProperty("foo", "bar"))

	m := mustBuild(t, b)
	m.Set("foo", str("changed"))

	again := mustBuild(t, b)
	foo, _ := again.Get("foo")
	assert.Equal(t, str("bar"), foo)
}

func TestBuild_LogsPasses(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	b := New(WithLogger(zap.New(core)))
	require.NoError(t, b.AddProperty("a", "{{b}}"))
	require.NoError(t, b.AddProperty("b", "x"))
	require.NoError(t, b.AddProperty("c[d]", "e"))

	mustBuild(t, b)

	passes := logs.FilterMessage("resolution pass").All()
	require.Len(t, passes, 1)
	assert.Equal(t, int64(3), passes[0].ContextMap()["resolved"])
	assert.Equal(t, 1, logs.FilterMessage("nested assignment applied").Len())
}

func TestAddProperty_Errors(t *testing.T) {
	type opaque struct{}

	b := New()

	err := b.AddProperty("", "empty")
	require.ErrorIs(t, err, ErrInvalidKey)
	assert.True(t, IsKind(err, KindInvalidKey))

	err = b.AddProperty("invalid", opaque{})
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, err.Error(), "invalid value for key 'invalid'")

	err = b.AddProperty("invalid", []any{opaque{}})
	require.ErrorIs(t, err, ErrInvalidValue)

	var ive *property.InvalidValueError
	require.True(t, errors.As(err, &ive))
	assert.Equal(t, "[0]", ive.Path)

	// Nothing was stored.
	m := mustBuild(t, b)
	assert.Equal(t, 0, m.Len())
}

func TestAddProperty_Overwrites(t *testing.T) {
	b := New()
	require.NoError(t, b.AddProperty("a", map[string]any{"x": 1}))
	require.NoError(t, b.AddProperty("b", 2))
	require.NoError(t, b.AddProperty("a", map[string]any{"y": 2}))

	assertResolved(t, mustBuild(t, b),
		kv{Key: "a", Value: arr(kv{Key: "y", Value: property.Int(2)})},
		kv{Key: "b", Value: property.Int(2)},
	)
}

func TestAddProperties_Errors(t *testing.T) {
	type opaque struct{}

	tests := []struct {
		name  string
		props any
		kind  error
		msg   string
	}{
		{"nil", nil, ErrInvalidArgument, "properties cannot be nil"},
		{"nil map", map[string]any(nil), ErrInvalidArgument, "properties cannot be nil"},
		{"nil property map", (*property.Map)(nil), ErrInvalidArgument, "properties cannot be nil"},
		{"not a mapping", "not_an_array", ErrInvalidArgument, "properties must be a mapping, got string"},
		{"slice", []any{"a"}, ErrInvalidArgument, "properties must be a mapping"},
		{"empty key", map[string]any{"": "empty"}, ErrInvalidKey, "properties cannot contain an empty key"},
		{"int key", map[int]string{0: "zero"}, ErrInvalidKey, "properties cannot contain a non-string key"},
		{"mixed keys", map[any]any{"a": 1, 2: "b"}, ErrInvalidKey, "non-string key"},
		{"invalid value", map[string]any{"invalid": opaque{}}, ErrInvalidValue, "invalid value for key 'invalid'"},
		{"invalid nested value", map[string]any{"invalid": []any{opaque{}}}, ErrInvalidValue, "invalid value for key 'invalid'"},
		{
			"invalid property value",
			property.MapOf(kv{Key: "dup", Value: property.Array(kv{Key: "a", Value: str("1")}, kv{Key: "a", Value: str("2")})}),
			ErrInvalidValue,
			"invalid value for key 'dup'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()

			err := b.AddProperties(tt.props)
			require.ErrorIs(t, err, tt.kind)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestAddProperties_AllOrNothing(t *testing.T) {
	type opaque struct{}

	b := New()
	require.NoError(t, b.AddProperty("keep", "me"))

	err := b.AddProperties(map[string]any{"a": "ok", "b": opaque{}})
	require.ErrorIs(t, err, ErrInvalidValue)

	assertResolved(t, mustBuild(t, b), kv{Key: "keep", Value: str("me")})
}

func TestAddProperties_Order(t *testing.T) {
	b := New()
	require.NoError(t, b.AddProperties(map[string]any{"zeta": 1, "alpha": 2}))

	var ordered property.Map
	ordered.Set("mid", property.Int(3))
	ordered.Set("alpha", property.Int(4))
	require.NoError(t, b.AddProperties(ordered))

	assertResolved(t, mustBuild(t, b),
		kv{Key: "alpha", Value: property.Int(4)},
		kv{Key: "zeta", Value: property.Int(1)},
		kv{Key: "mid", Value: property.Int(3)},
	)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "CircularReference", KindCircularReference.String())
	assert.Equal(t, "EmptySubstitutionKey", KindEmptySubstitutionKey.String())
	assert.Equal(t, "ErrorKind(99)", ErrorKind(99).String())

	err := &Error{Kind: KindNotScalar, Msg: "m"}
	assert.ErrorIs(t, err, ErrNotScalar)
	assert.NotErrorIs(t, err, ErrNotAnArray)
	assert.False(t, errors.Is(&Error{Kind: KindUnknown}, ErrNotScalar))
}
