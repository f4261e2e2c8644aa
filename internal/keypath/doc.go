// Package keypath parses property keys of the form
//
//	base[index1][index2]...
//
// where base and every index are non-empty and contain no brackets.
// A key without a bracket suffix is a plain key; a key with one is a
// nested-assignment key (or, inside a placeholder, a nested reference).
package keypath
