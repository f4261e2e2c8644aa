// Package builder resolves a set of properties that reference each other.
//
// Properties are added with AddProperty or AddProperties and resolved with
// Build. String values may contain {{ref}} placeholders naming another key,
// optionally with an index path ({{servers[0][host]}}):
//
//	subject: world
//	message: Hello, {{subject}}
//
// A string that is exactly one placeholder is replaced by the referenced value
// itself, so arrays and null can be copied. This is how prototypes work:
//
//	prototype:          {salutation: Hello, subject: world}
//	array1:             "{{prototype}}"
//	array1[subject]:    Newman
//	array2:             "{{prototype}}"
//	array2[adjective]:  cruel
//
// Keys of the form base[idx]... are nested assignments: their resolved value
// is written into base at the given path, creating base and any missing
// intermediate arrays. The key itself does not appear in the result.
//
// Build iterates until a pass makes no progress. Failures are collected
// instead of aborting: only the failures of the final pass are reported, so a
// key that could not be resolved early because of a dependency does not show
// up if it succeeds later. Errors and Diagnostics return them.
//
// A Builder is not safe for concurrent use.
package builder
