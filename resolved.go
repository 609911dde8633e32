package stratum

import (
	"fmt"
	"slices"
)

const maskedValue = "******"

// Value is the resolved value of one leaf.
type Value struct {
	Key    string     `json:"key"`
	Type   Type       `json:"type"`
	Raw    string     `json:"raw"`
	Typed  any        `json:"-"`
	Source SourceKind `json:"source"`
	Secret bool       `json:"secret,omitempty"`
}

// Display returns Raw, or a fixed mask for secret leaves.
func (v Value) Display() string {
	if v.Secret {
		return maskedValue
	}
	return v.Raw
}

// Masked returns a copy of v safe to print or serialize.
func (v Value) Masked() Value {
	if v.Secret {
		v.Raw = maskedValue
		v.Typed = nil
	}
	return v
}

// Resolved is the fully typed configuration produced by a successful resolution. It is
// immutable and safe to share between goroutines.
type Resolved struct {
	schema   *Schema
	values   []Value
	index    map[string]int
	warnings []error
}

func newResolved(schema *Schema, values []Value) *Resolved {
	r := &Resolved{
		schema: schema,
		values: values,
		index:  make(map[string]int, len(values)),
	}
	for i, v := range values {
		r.index[v.Key] = i
	}
	return r
}

// Schema returns the schema the values were resolved against.
func (r *Resolved) Schema() *Schema {
	return r.schema
}

// Get returns the value of key. Skipped leaves are never present.
func (r *Resolved) Get(key string) (Value, bool) {
	i, ok := r.index[key]
	if !ok {
		return Value{}, false
	}
	return r.values[i], true
}

// Values returns every value in schema declaration order.
func (r *Resolved) Values() []Value {
	return slices.Clone(r.values)
}

// Len returns the number of resolved values.
func (r *Resolved) Len() int {
	return len(r.values)
}

// Source returns where key's value came from.
func (r *Resolved) Source(key string) (SourceKind, bool) {
	v, ok := r.Get(key)
	return v.Source, ok
}

// Warnings returns the non-fatal problems of the resolution, such as a failed cache write.
func (r *Resolved) Warnings() []error {
	return slices.Clone(r.warnings)
}

// Get returns the typed value of key as T. T must be the Go type produced by the leaf
// Type (ex: uint16 for Uint16, time.Duration for Duration, []string for StringSlice).
func Get[T any](r *Resolved, key string) (T, error) {
	var zero T
	v, ok := r.Get(key)
	if !ok {
		return zero, fmt.Errorf("get %s: %w", key, ErrUnknownKey)
	}
	typed, ok := v.Typed.(T)
	if !ok {
		return zero, fmt.Errorf("get %s: %w: value is %s, not %T", key, ErrTypeMismatch, v.Type, zero)
	}
	return typed, nil
}

// MustGet is like Get but panics on error.
func MustGet[T any](r *Resolved, key string) T {
	v, err := Get[T](r, key)
	if err != nil {
		panic(err)
	}
	return v
}
