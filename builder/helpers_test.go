package builder

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-builder/property"
)

type kv = property.Entry

func arr(entries ...kv) property.Value { return property.Array(entries...) }

func str(s string) property.Value { return property.Str(s) }

// mustBuild builds b and fails the test with the collected errors if the
// build does not succeed.
func mustBuild(t *testing.T, b *Builder) *property.Map {
	t.Helper()

	m, err := b.Build()
	require.NoError(t, err, "errors: %s", spew.Sdump(b.Errors()))
	require.NotNil(t, m)
	assert.Empty(t, b.Errors())

	return m
}

// buildErrors builds b, expecting failure, and returns the error messages.
func buildErrors(t *testing.T, b *Builder) []string {
	t.Helper()

	m, err := b.Build()
	require.ErrorIs(t, err, ErrBuildFailed)
	assert.Nil(t, m)

	return b.Errors()
}

// assertResolved compares values with go-cmp and then checks key order.
func assertResolved(t *testing.T, got *property.Map, want ...kv) {
	t.Helper()

	wantMap := property.MapOf(want...)
	if diff := cmp.Diff(wantMap.ToAny(), got.ToAny()); diff != "" {
		t.Fatalf("resolved properties mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, wantMap.Equal(got), "order mismatch:\nwant %s\ngot  %s", wantMap.Value(), got.Value())
}
