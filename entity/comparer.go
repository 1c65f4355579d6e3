package entity

import "strings"

// Comparer controls how keys, fields and sorted-set values compare. The
// engine's state-name index always uses the case-insensitive comparer
// regardless of this setting, since it is framework-internal.
type Comparer interface {
	// Equal reports whether a and b are the same under this comparer.
	Equal(a, b string) bool
	// Less reports whether a sorts before b under this comparer.
	Less(a, b string) bool
	// Normalize folds s into the canonical form this comparer uses for
	// map-key lookups, so a plain Go map can stand in for a
	// comparer-aware one: two strings that Equal reports equal always
	// normalize to the same value.
	Normalize(s string) string
}

// caseSensitiveComparer compares strings byte-for-byte. It is the default,
// Redis-like behavior.
type caseSensitiveComparer struct{}

// CaseSensitiveComparer is the default comparer: byte-for-byte comparison.
var CaseSensitiveComparer Comparer = caseSensitiveComparer{}

func (caseSensitiveComparer) Equal(a, b string) bool   { return a == b }
func (caseSensitiveComparer) Less(a, b string) bool    { return a < b }
func (caseSensitiveComparer) Normalize(s string) string { return s }

// caseInsensitiveComparer folds case before comparing, SQL-Server-like.
type caseInsensitiveComparer struct{}

// CaseInsensitiveComparer folds case before comparing.
var CaseInsensitiveComparer Comparer = caseInsensitiveComparer{}

func (caseInsensitiveComparer) Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}

func (caseInsensitiveComparer) Less(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

func (caseInsensitiveComparer) Normalize(s string) string {
	return strings.ToLower(s)
}
