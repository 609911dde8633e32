package stratum

import (
	"regexp"
	"strings"
)

var validSegmentRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// IsValidSegment reports whether name can be used as a single path segment.
// Segments are lowercase, start with a letter and contain only letters, digits and
// underscores.
func IsValidSegment(name string) bool {
	return validSegmentRegex.MatchString(name) && !strings.HasSuffix(name, "_") && !strings.Contains(name, "__")
}

// IsValidKey reports whether key is a dotted sequence of valid segments.
// It checks that the key:
//   - is not empty
//   - does not start or end with "."
//   - does not contain empty segments ("a..b")
//   - consists only of segments accepted by IsValidSegment
func IsValidKey(key string) bool {
	if key == "" {
		return false
	}
	for _, seg := range strings.Split(key, ".") {
		if !IsValidSegment(seg) {
			return false
		}
	}
	return true
}

// Path is the ordered list of segments that identifies a leaf.
type Path []string

// String returns the dotted key, ex: "database.pool.min_size".
func (p Path) String() string {
	return strings.Join(p, ".")
}

// EnvName returns the environment variable name for p: the prefix (if any), then every
// segment upper-cased and joined with "_". ex: ("APP", database.pool.min_size) ->
// APP_DATABASE_POOL_MIN_SIZE.
func (p Path) EnvName(prefix string) string {
	name := strings.ToUpper(strings.Join(p, "_"))
	prefix = strings.TrimSuffix(strings.ToUpper(prefix), "_")
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

// FlagName returns the command-line flag name for p, ex: database-pool-min-size.
func (p Path) FlagName() string {
	return strings.ReplaceAll(strings.ReplaceAll(p.String(), ".", "-"), "_", "-")
}

// HasPrefix reports whether p starts with every segment of prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

func (p Path) child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// ParseKey splits a dotted key into a Path. It does not validate the segments.
func ParseKey(key string) Path {
	if key == "" {
		return nil
	}
	return Path(strings.Split(key, "."))
}

// toSnake converts a Go identifier into snake_case, keeping acronyms together
// (ex: "MaxIdleConns" -> "max_idle_conns", "DSN" -> "dsn", "HTTPPort" -> "http_port").
func toSnake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper {
			if i > 0 {
				prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z' || runes[i-1] >= '0' && runes[i-1] <= '9'
				nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
				prevUpper := runes[i-1] >= 'A' && runes[i-1] <= 'Z'
				if prevLower || (prevUpper && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
