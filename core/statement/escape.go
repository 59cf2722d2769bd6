// Package statement turns structured descriptions of INSERT, UPDATE, SELECT and
// DELETE operations into parameterized SQL text plus a map of bind values. The
// package is pure: it performs no I/O and every call allocates its own state, so
// it is safe for concurrent use.
package statement

import "strings"

// identifierCutset holds the characters trimmed from a qualified identifier before
// it is quoted.
const identifierCutset = " `\t\n\r\x00\x0B"

// Escape normalizes a table or column token for use as raw SQL text.
//
// A token containing a qualifier separator (".") is trimmed of surrounding
// whitespace and backticks and wrapped in backticks as a whole, so "users.name"
// becomes "`users.name`". Any other token is returned with surrounding whitespace
// trimmed and no quoting.
//
// Identifiers are never treated as data. Callers must not pass untrusted input.
func Escape(token string) string {
	if strings.Contains(token, ".") {
		return "`" + strings.Trim(token, identifierCutset) + "`"
	}
	return strings.TrimSpace(token)
}

// escapeAll applies Escape to every token.
func escapeAll(tokens []string) []string {
	escaped := make([]string, 0, len(tokens))
	for _, token := range tokens {
		escaped = append(escaped, Escape(token))
	}
	return escaped
}
