// Package strings holds the small string and slice helpers module wiring leans on
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// Prefix normalizes a mount path to one leading slash and no trailing slash
// blank input and "/" both mean the root and come back as "/"
func Prefix(s string) string {
	s = std.Trim(std.TrimSpace(s), "/")
	return "/" + s
}

// IsRoot reports whether a mount path normalizes to "/"
func IsRoot(s string) bool { return Prefix(s) == "/" }
