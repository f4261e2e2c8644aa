package loader

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"property-builder/property"
)

// parseTOML decodes a TOML document, ordering keys as they appear in it.
func parseTOML(data []byte) (*property.Map, error) {
	raw := make(map[string]any)

	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	order := make(map[string]int)
	for i, k := range md.Keys() {
		path := strings.Join(k, "\x00")
		if _, seen := order[path]; !seen {
			order[path] = i
		}
	}

	t := tomlOrder(order)

	v, err := t.table(raw, "")
	if err != nil {
		return nil, err
	}

	return property.MapOf(v.Entries()...), nil
}

// tomlOrder ranks key paths by first appearance in the document. Array
// indices are not part of a path, so all tables of an array share a ranking.
type tomlOrder map[string]int

func (o tomlOrder) table(tbl map[string]any, prefix string) (property.Value, error) {
	keys := make([]string, 0, len(tbl))
	for k := range tbl {
		keys = append(keys, k)
	}

	rank := func(k string) int {
		if r, ok := o[prefix+k]; ok {
			return r
		}

		return len(o)
	}

	slices.SortFunc(keys, func(a, b string) int {
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra - rb
		}

		return strings.Compare(a, b)
	})

	entries := make([]property.Entry, 0, len(keys))

	for _, k := range keys {
		v, err := o.value(tbl[k], prefix+k+"\x00")
		if err != nil {
			return property.Value{}, fmt.Errorf("key %q: %w", k, err)
		}

		entries = append(entries, property.Entry{Key: k, Value: v})
	}

	return property.Array(entries...), nil
}

func (o tomlOrder) value(in any, prefix string) (property.Value, error) {
	switch t := in.(type) {
	case map[string]any:
		return o.table(t, prefix)
	case []map[string]any:
		values := make([]property.Value, len(t))

		for i, tbl := range t {
			v, err := o.table(tbl, prefix)
			if err != nil {
				return property.Value{}, err
			}

			values[i] = v
		}

		return property.List(values...), nil
	case []any:
		values := make([]property.Value, len(t))

		for i, item := range t {
			v, err := o.value(item, prefix)
			if err != nil {
				return property.Value{}, err
			}

			values[i] = v
		}

		return property.List(values...), nil
	case time.Time:
		return property.Str(t.Format(time.RFC3339Nano)), nil
	default:
		return property.FromAny(t)
	}
}
