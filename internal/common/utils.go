package common

import "strings"

// EqualFoldAny reports whether s equals any of the options, ignoring case and
// surrounding whitespace.
func EqualFoldAny(s string, options ...string) bool {
	s = strings.TrimSpace(s)
	for _, o := range options {
		if strings.EqualFold(s, o) {
			return true
		}
	}
	return false
}
