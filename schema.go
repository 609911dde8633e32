package stratum

import (
	"fmt"
	"iter"
	"reflect"
)

// Field is the declarative description of one configuration field. A Field with
// non-nil Children is a nested sub-schema; otherwise it is a leaf of scalar Type.
type Field struct {
	Name string
	Type Type

	// Default is used when no source supplies the leaf. It only counts when HasDefault
	// (or DefaultFunc) is set, so an empty default is distinguishable from none.
	Default     string
	HasDefault  bool
	DefaultFunc func() (string, error)

	// Skip excludes the leaf from flags, file, env and cache. Skipped leaves are never
	// required and must be supplied programmatically.
	Skip bool
	// Cache marks the leaf for persistence by CacheWriter after a successful resolution.
	Cache bool
	// Secret masks the value in every human-facing rendering.
	Secret bool
	// Validate is a go-playground/validator tag applied to the typed value, ex: "min=1,max=65535".
	Validate string
	Usage    string

	Children []Field
	// Flatten hoists the children into the root namespace as "<prefix>_<name>".
	Flatten bool
	// Prefix overrides the flattening prefix, which defaults to Name.
	Prefix string

	index []int // reflect index path, set by SchemaOf
}

// IsNested reports whether f describes a sub-schema.
func (f Field) IsNested() bool {
	return f.Children != nil
}

// FieldOption customises a Field built by Scalar or Nested.
type FieldOption func(*Field)

// Scalar returns a leaf field of the given type.
func Scalar(name string, typ Type, opts ...FieldOption) Field {
	f := Field{Name: name, Type: typ}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// Nested returns a sub-schema field.
func Nested(name string, children []Field, opts ...FieldOption) Field {
	if children == nil {
		children = []Field{}
	}
	f := Field{Name: name, Children: children}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// WithDefault sets a static default, making the leaf optional.
func WithDefault(v string) FieldOption {
	return func(f *Field) {
		f.Default = v
		f.HasDefault = true
	}
}

// WithDefaultFunc sets a default generated at resolution time. Combine with Cached to
// keep a generated value stable across runs.
func WithDefaultFunc(fn func() (string, error)) FieldOption {
	return func(f *Field) {
		f.DefaultFunc = fn
	}
}

// Skipped excludes the leaf from every source.
func Skipped() FieldOption {
	return func(f *Field) { f.Skip = true }
}

// Cached marks the leaf as cacheable.
func Cached() FieldOption {
	return func(f *Field) { f.Cache = true }
}

// Secret masks the leaf value in output.
func Secret() FieldOption {
	return func(f *Field) { f.Secret = true }
}

// Validated attaches a go-playground/validator tag to the leaf.
func Validated(tag string) FieldOption {
	return func(f *Field) { f.Validate = tag }
}

// Usage sets the help text used for flags and schema listings.
func Usage(text string) FieldOption {
	return func(f *Field) { f.Usage = text }
}

// Flattened hoists a nested field's leaves into the root namespace. An empty prefix
// keeps the default, which is the field's own name.
func Flattened(prefix string) FieldOption {
	return func(f *Field) {
		f.Flatten = true
		f.Prefix = prefix
	}
}

// Leaf is a compiled scalar field with its fully-qualified path.
type Leaf struct {
	Path       Path
	Key        string
	Type       Type
	Required   bool
	Skipped    bool
	Cacheable  bool
	Secret     bool
	Default    string
	HasDefault bool
	Validate   string
	Usage      string

	defaultFunc func() (string, error)
	// fieldIndex is the reflect index path for schemas derived from a struct.
	fieldIndex []int
	order      int
	origin     string // declaration path, used in schema diagnostics
}

// EnvName returns the environment variable name of the leaf for prefix.
func (l Leaf) EnvName(prefix string) string {
	return l.Path.EnvName(prefix)
}

// FlagName returns the command-line flag name of the leaf.
func (l Leaf) FlagName() string {
	return l.Path.FlagName()
}

// DefaultValue returns the raw default for the leaf, invoking the generator if the leaf
// has one. ok is false when the leaf has no default.
func (l Leaf) DefaultValue() (raw string, ok bool, err error) {
	if l.defaultFunc != nil {
		raw, err = l.defaultFunc()
		if err != nil {
			return "", true, fmt.Errorf("generate default: %w", err)
		}
		return raw, true, nil
	}
	return l.Default, l.HasDefault, nil
}

// Schema is the compiled, immutable form of a field tree. It is safe for concurrent use.
type Schema struct {
	fields []Field
	leaves []Leaf
	index  map[string]int
	typ    reflect.Type // struct the schema was derived from, if any
}

// NewSchema flattens fields and checks that every leaf resolves to a unique, unambiguous
// key. All problems are returned together as a *SchemaError.
func NewSchema(fields ...Field) (*Schema, error) {
	leaves, err := Flatten(fields)
	if err != nil {
		return nil, err
	}

	s := &Schema{
		fields: fields,
		leaves: leaves,
		index:  make(map[string]int, len(leaves)),
	}
	for i := range leaves {
		s.index[leaves[i].Key] = i
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It is intended for package-level
// schema variables.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Leaves returns the leaves in declaration order.
func (s *Schema) Leaves() []Leaf {
	out := make([]Leaf, len(s.leaves))
	copy(out, s.leaves)
	return out
}

// All iterates over the leaves in declaration order without copying the slice.
func (s *Schema) All() iter.Seq[Leaf] {
	return func(yield func(Leaf) bool) {
		for _, l := range s.leaves {
			if !yield(l) {
				return
			}
		}
	}
}

// Leaf returns the leaf with the given dotted key.
func (s *Schema) Leaf(key string) (Leaf, bool) {
	i, ok := s.index[key]
	if !ok {
		return Leaf{}, false
	}
	return s.leaves[i], true
}

// Len returns the number of leaves.
func (s *Schema) Len() int {
	return len(s.leaves)
}

// Fields returns the declarative field tree the schema was built from.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}
