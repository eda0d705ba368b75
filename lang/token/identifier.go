package token

import "strings"

// IsValidIdentifier reports whether name is a legal variable name:
// [A-Za-z_][A-Za-z0-9_]* followed by an optional trailing '$' (marking a
// string-typed variable). Matching is case-sensitive for lookups but the
// character classes below accept either case.
func IsValidIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasSuffix(name, "$") {
		name = name[:len(name)-1]
	}
	if name == "" {
		return false
	}
	for i, c := range name {
		if i == 0 {
			if !isIdentStart(c) {
				return false
			}
			continue
		}
		if !isIdentStart(c) && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func isIdentStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

// IsStringName reports whether name denotes a string-typed variable, i.e.
// it carries the trailing '$' marker.
func IsStringName(name string) bool {
	return strings.HasSuffix(name, "$")
}
