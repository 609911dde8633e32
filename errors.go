package stratum

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaDefinition is returned by NewSchema when the field tree cannot be compiled.
	ErrSchemaDefinition = errors.New("schema definition error")
	// ErrSourceUnavailable is returned when a whole source could not be read
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMissingRequired is matched by a Report that contains at least one missing required field
	ErrMissingRequired = errors.New("missing required field")
	// ErrInvalidValue is matched by a Report that contains at least one unparsable or rejected value
	ErrInvalidValue = errors.New("invalid field value")
	// ErrMissingIndirection is matched by a Report that references an unset environment variable
	ErrMissingIndirection = errors.New("missing indirection")
	// ErrCacheWrite is returned by CacheWriter when persisting cacheable values fails
	ErrCacheWrite = errors.New("cache write failed")
	// ErrUnknownKey is returned when a key is not part of the schema or the resolved values
	ErrUnknownKey = errors.New("unknown key")
	// ErrTypeMismatch is returned by Get when the requested Go type does not match the leaf type
	ErrTypeMismatch = errors.New("type mismatch")
)

// SchemaError lists every problem found while compiling a schema.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	if len(e.Problems) == 1 {
		return "schema definition error: " + e.Problems[0]
	}
	var b strings.Builder
	b.WriteString("schema definition errors:")
	for _, p := range e.Problems {
		b.WriteString("\n  - ")
		b.WriteString(p)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaDefinition
}

// SourceError reports a source that could not be read at all. Resolution stops when one
// is returned, since the merge cannot be attempted without the source.
type SourceError struct {
	Source SourceKind
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source unavailable: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}
