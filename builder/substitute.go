package builder

import (
	"property-builder/internal/placeholder"
	"property-builder/property"
)

// resolveValue substitutes placeholders in v. Arrays are resolved element by
// element; on failure the elements resolved so far are kept in the result.
func (b *Builder) resolveValue(v property.Value) (property.Value, error) {
	switch v.Kind() {
	case property.KindString:
		s, _ := v.AsString()
		return b.resolveString(v, s)
	case property.KindArray:
		out := v
		for _, e := range v.Entries() {
			r, err := b.resolveValue(e.Value)
			out = out.With(e.Key, r)

			if err != nil {
				return out, err
			}
		}

		return out, nil
	default:
		return v, nil
	}
}

func (b *Builder) resolveString(v property.Value, s string) (property.Value, error) {
	if ref, ok := placeholder.Whole(s); ok {
		if ref == "" {
			return v, emptySubstitution()
		}

		found, err := b.get(ref)
		if err != nil {
			return v, err
		}

		return found, nil
	}

	out, err := placeholder.Replace(s, b.interpolate)
	if err != nil {
		return v, err
	}

	return property.Str(out), nil
}

// interpolate returns the text that replaces {{ref}} inside a longer string.
func (b *Builder) interpolate(ref string) (string, error) {
	if ref == "" {
		return "", emptySubstitution()
	}

	v, err := b.get(ref)
	if err != nil {
		return "", err
	}

	if v.IsNull() {
		return "", newError(KindNullInSubstitution, ref, "Error using '%s' in substitution: value is NULL", ref)
	}

	text, ok := v.Text()
	if !ok {
		return "", newError(KindNotScalar, ref, "Error using '%s' in substitution: value is not scalar", ref)
	}

	return text, nil
}

func emptySubstitution() *Error {
	return newError(KindEmptySubstitutionKey, "", `Error: Substitution with empty key "{{}}"`)
}
