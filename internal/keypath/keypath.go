package keypath

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is returned for keys that do not follow the base[index]... grammar.
var ErrInvalid = errors.New("invalid key")

// Key is a parsed property key.
type Key struct {
	// Base is the leading identifier.
	Base string
	// Index holds the bracketed segments in order. Empty for plain keys.
	Index []string
}

// IsNested reports whether the key has at least one index segment.
func (k Key) IsNested() bool {
	return len(k.Index) > 0
}

// String returns the key in base[index]... form.
func (k Key) String() string {
	var sb strings.Builder

	sb.WriteString(k.Base)

	for _, idx := range k.Index {
		sb.WriteByte('[')
		sb.WriteString(idx)
		sb.WriteByte(']')
	}

	return sb.String()
}

// Parse splits raw into its base and index segments.
// Supports: "foo", "foo[bar]", "foo[bar][0]".
func Parse(raw string) (Key, error) {
	open := strings.IndexAny(raw, "[]")
	if open == 0 || raw == "" {
		return Key{}, fmt.Errorf("%w %q: missing base", ErrInvalid, raw)
	}

	if open < 0 {
		return Key{Base: raw}, nil
	}

	if raw[open] == ']' {
		return Key{}, fmt.Errorf("%w %q: unexpected ']' at offset %d", ErrInvalid, raw, open)
	}

	key := Key{Base: raw[:open]}

	rest := raw[open:]
	for rest != "" {
		if rest[0] != '[' {
			return Key{}, fmt.Errorf("%w %q: expected '[' at offset %d", ErrInvalid, raw, len(raw)-len(rest))
		}

		end := strings.IndexAny(rest[1:], "[]")
		if end < 0 || rest[1+end] != ']' {
			return Key{}, fmt.Errorf("%w %q: unterminated index", ErrInvalid, raw)
		}

		if end == 0 {
			return Key{}, fmt.Errorf("%w %q: empty index", ErrInvalid, raw)
		}

		key.Index = append(key.Index, rest[1:1+end])
		rest = rest[end+2:]
	}

	return key, nil
}

// Base returns the base of raw, or raw itself when it cannot be parsed.
func Base(raw string) string {
	k, err := Parse(raw)
	if err != nil {
		return raw
	}

	return k.Base
}
