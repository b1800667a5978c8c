package utils

import "strings"

// NormalizeEmail produces the canonical form used for uniqueness: trimmed
// and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
