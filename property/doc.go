// Package property defines the value model shared by the builder and its
// front-ends.
//
// A property Value is one of six kinds:
//   - Null
//   - Bool
//   - Int (int64)
//   - Float (float64)
//   - String
//   - Array: an ordered sequence of (key, Value) entries with non-empty keys
//
// List-like arrays use the implicit sequential keys "0", "1", ... and are
// encoded as sequences by the YAML and JSON marshalers.
//
// Values are immutable from the outside. Helpers that "modify" an array, such
// as With, return a new Value and never write into an entries slice that may be
// shared with another Value. This lets a prototype be copied into several keys
// and then overridden independently.
//
// Map is an insertion-ordered mapping of property keys to values. Overwriting
// an existing key keeps its position; deleting a key removes it from the order.
package property
