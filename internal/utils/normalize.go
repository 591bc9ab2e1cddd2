package utils

import "strings"

// NormalizeChassis trims a chassis number for suffix matching. Case is kept;
// lookups compare case-insensitively in SQL.
func NormalizeChassis(raw string) string {
	return strings.TrimSpace(raw)
}
