// Package pep503 implements the package name normalization rules from
// PEP 503 (https://peps.python.org/pep-0503/#normalized-names).
//
// PyPI and every compliant tool treat "Foo-Bar", "foo_bar", and "FOO.BAR"
// as the same project. Any code that compares package names must compare
// their normalized forms, never the raw strings.
package pep503

import (
	"regexp"
	"strings"
)

var separatorRE = regexp.MustCompile(`[-_.]+`)

// Normalize returns the canonical form of a Python package name:
// lowercase, with every run of hyphens, underscores, and dots collapsed
// to a single hyphen. Two names refer to the same project if and only if
// their normalized forms are equal.
func Normalize(name string) string {
	return strings.ToLower(separatorRE.ReplaceAllString(strings.TrimSpace(name), "-"))
}

// Equal reports whether two package names identify the same project.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
