// Package internal holds helpers shared by the database backends.
package internal

import "regexp"

// DefaultTable is the cache table used when none is configured.
const DefaultTable = "stratum_cache"

var validTableNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// IsValidTableName reports whether name can be safely interpolated into SQL as a table
// name: a letter or underscore followed by letters, digits or underscores, at most 63
// characters (the PostgreSQL identifier limit).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name)
}
