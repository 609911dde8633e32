package stratum

import (
	"maps"
	"slices"
)

// Document is the read-only set of raw values one source was able to supply, keyed by
// dotted leaf key. Missing keys are simply absent.
type Document struct {
	kind   SourceKind
	values map[string]string
}

// NewDocument returns a Document for kind holding a copy of values.
func NewDocument(kind SourceKind, values map[string]string) Document {
	return Document{kind: kind, values: maps.Clone(values)}
}

// Kind returns the source the document was collected from.
func (d Document) Kind() SourceKind {
	return d.kind
}

// Lookup returns the raw value stored for key.
func (d Document) Lookup(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Len returns the number of keys in the document.
func (d Document) Len() int {
	return len(d.values)
}

// Keys returns the document keys in sorted order.
func (d Document) Keys() []string {
	return slices.Sorted(maps.Keys(d.values))
}

// Effective is the result of merging documents: one raw value per key plus the source
// that supplied it.
type Effective struct {
	values  map[string]string
	origins map[string]SourceKind
}

// Lookup returns the winning raw value for key and the source it came from.
func (e *Effective) Lookup(key string) (string, SourceKind, bool) {
	v, ok := e.values[key]
	if !ok {
		return "", 0, false
	}
	return v, e.origins[key], true
}

// Len returns the number of keys present after merging.
func (e *Effective) Len() int {
	return len(e.values)
}

// Origins returns a copy of the key to winning-source map.
func (e *Effective) Origins() map[string]SourceKind {
	return maps.Clone(e.origins)
}
