package builder

import (
	"property-builder/internal/keypath"
	"property-builder/property"
)

// get returns the resolved value referenced by ref, which may carry an index
// path. The base key is resolved first.
func (b *Builder) get(ref string) (property.Value, error) {
	key, err := keypath.Parse(ref)
	if err != nil {
		return property.Value{}, newError(KindInvalidKey, ref, "Invalid key: '%s'", ref)
	}

	if !b.props.Has(key.Base) {
		e := newError(KindKeyNotDefined, key.Base, "Error getting '%s': '%s' is not defined", ref, key.Base)
		e.Suggestions = b.suggest(key.Base)

		return property.Value{}, e
	}

	if err := b.resolveKey(key.Base); err != nil {
		return property.Value{}, err
	}

	value, _ := b.props.Get(key.Base)
	errKey := key.Base

	for _, idx := range key.Index {
		if !value.IsArray() {
			return property.Value{}, newError(KindNotAnArray, errKey, "Error getting '%s': '%s' is not an array", ref, errKey)
		}

		errKey += "[" + idx + "]"

		next, ok := value.Lookup(idx)
		if !ok {
			return property.Value{}, newError(KindKeyNotDefined, errKey, "Error getting '%s': '%s' is not defined", ref, errKey)
		}

		value = next
	}

	return value, nil
}

// setNested writes value into key.Base at key.Index. A missing base and
// missing intermediate slots are created as empty arrays. The base is rebuilt
// along the path, so values shared with other keys are never modified.
func (b *Builder) setNested(key keypath.Key, value property.Value) error {
	if err := property.Validate(value); err != nil {
		return &Error{Kind: KindInvalidValue, Key: key.String(), Msg: "Invalid value", Err: err}
	}

	base, ok := b.props.Get(key.Base)
	if !ok {
		base = property.EmptyArray()
	}

	updated, err := setIn(base, key.Base, key.Index, value)
	if err != nil {
		return err
	}

	b.props.Set(key.Base, updated)

	return nil
}

// setIn returns a copy of container with value stored at path. name is the
// label of container used in error messages: the base key at the top level,
// the index leading to it below.
func setIn(container property.Value, name string, path []string, value property.Value) (property.Value, error) {
	if !container.IsArray() {
		return property.Value{}, newError(KindNotAnArray, name, "'%s' is not an array", name)
	}

	idx := path[0]
	if len(path) == 1 {
		return container.With(idx, value), nil
	}

	child, ok := container.Lookup(idx)
	if !ok {
		child = property.EmptyArray()
	}

	updated, err := setIn(child, idx, path[1:], value)
	if err != nil {
		return property.Value{}, err
	}

	return container.With(idx, updated), nil
}
