// Package placeholder finds {{ref}} tokens in property strings.
//
// A reference is the text between the braces and may not itself contain
// '{' or '}'. It may be empty, which callers report as an error.
package placeholder

import (
	"regexp"
	"strings"
)

var (
	wholePattern = regexp.MustCompile(`^\{\{([^{}]*)\}\}$`)
	anyPattern   = regexp.MustCompile(`\{\{([^{}]*)\}\}`)
)

// Match is one placeholder occurrence inside a string.
type Match struct {
	// Start and End are byte offsets of the whole token, braces included.
	Start, End int
	// Ref is the text between the braces.
	Ref string
}

// Whole reports whether s consists of exactly one placeholder and returns its
// reference.
func Whole(s string) (string, bool) {
	m := wholePattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}

	return m[1], true
}

// FindAll returns every placeholder in s, left to right.
func FindAll(s string) []Match {
	if !strings.Contains(s, "{{") {
		return nil
	}

	idx := anyPattern.FindAllStringSubmatchIndex(s, -1)
	out := make([]Match, 0, len(idx))

	for _, loc := range idx {
		out = append(out, Match{Start: loc[0], End: loc[1], Ref: s[loc[2]:loc[3]]})
	}

	return out
}

// Replace substitutes every placeholder in s with the text returned by fn.
// It stops at the first error and returns it.
func Replace(s string, fn func(ref string) (string, error)) (string, error) {
	matches := FindAll(s)
	if len(matches) == 0 {
		return s, nil
	}

	var sb strings.Builder

	last := 0

	for _, m := range matches {
		text, err := fn(m.Ref)
		if err != nil {
			return "", err
		}

		sb.WriteString(s[last:m.Start])
		sb.WriteString(text)

		last = m.End
	}

	sb.WriteString(s[last:])

	return sb.String(), nil
}

// Refs returns the references of all placeholders in s, including empty ones.
func Refs(s string) []string {
	matches := FindAll(s)
	if len(matches) == 0 {
		return nil
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Ref
	}

	return out
}
