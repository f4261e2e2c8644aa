package refgraph

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"property-builder/internal/keypath"
	"property-builder/internal/placeholder"
	"property-builder/property"
)

// Graph maps every base key to the base keys its value references.
// Nested-assignment keys (base[idx]...) contribute to their base.
type Graph struct {
	keys      []string
	index     map[string]int
	deps      map[string][]string
	undefined []string
}

// CycleError reports keys that cannot be ordered because they depend on
// each other.
type CycleError struct {
	Keys []string
}

func (e *CycleError) Error() string {
	return "cycle detected among keys: " + strings.Join(e.Keys, ", ")
}

// Build scans the raw values of m.
func Build(m *property.Map) *Graph {
	g := &Graph{
		index: make(map[string]int),
		deps:  make(map[string][]string),
	}

	for raw, v := range m.All() {
		base := keypath.Base(raw)
		g.add(base)

		nested := base != raw

		for _, ref := range collectRefs(v, nil) {
			dep := keypath.Base(ref)
			if nested && dep == base {
				continue
			}

			if !slices.Contains(g.deps[base], dep) {
				g.deps[base] = append(g.deps[base], dep)
			}
		}
	}

	seen := make(map[string]bool)

	for _, k := range g.keys {
		for _, d := range g.deps[k] {
			if _, defined := g.index[d]; !defined && !seen[d] {
				seen[d] = true
				g.undefined = append(g.undefined, d)
			}
		}
	}

	return g
}

func (g *Graph) add(base string) {
	if _, ok := g.index[base]; ok {
		return
	}

	g.index[base] = len(g.keys)
	g.keys = append(g.keys, base)
}

func collectRefs(v property.Value, out []string) []string {
	switch v.Kind() {
	case property.KindString:
		s, _ := v.AsString()
		for _, ref := range placeholder.Refs(s) {
			if ref != "" {
				out = append(out, ref)
			}
		}
	case property.KindArray:
		for _, e := range v.Entries() {
			out = collectRefs(e.Value, out)
		}
	}

	return out
}

// Keys returns the base keys in order of first appearance.
func (g *Graph) Keys() []string {
	return slices.Clone(g.keys)
}

// Dependencies returns the base keys referenced by key, in order of first
// reference. References to undefined keys are included.
func (g *Graph) Dependencies(key string) []string {
	return slices.Clone(g.deps[key])
}

// Undefined returns referenced base keys that are never declared.
func (g *Graph) Undefined() []string {
	return slices.Clone(g.undefined)
}

// Order returns the keys with every key after the keys it depends on.
//
// The result is deterministic: when several keys are available, the one that
// appeared first wins. References to undefined keys are ignored. If some keys
// depend on each other, a *CycleError lists them in order of appearance.
func (g *Graph) Order() ([]string, error) {
	n := len(g.keys)
	if n == 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i, k := range g.keys {
		for _, dep := range g.deps[k] {
			d, ok := g.index[dep]
			if !ok {
				continue
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		var cyclic []string

		for i, k := range g.keys {
			if indeg[i] > 0 {
				cyclic = append(cyclic, k)
			}
		}

		return nil, fmt.Errorf("order properties: %w", &CycleError{Keys: cyclic})
	}

	keys := make([]string, n)
	for i, idx := range order {
		keys[i] = g.keys[idx]
	}

	return keys, nil
}
