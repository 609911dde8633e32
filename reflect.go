package stratum

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	schemaCache  sync.Map // reflect.Type -> *Schema
	durationType = reflect.TypeFor[time.Duration]()
)

// SchemaOf derives a schema from the struct (or pointer to struct) v.
//
// Exported fields become fields of the schema; struct-typed fields become nested
// sub-schemas and embedded structs without a name are inlined. Field names default to
// the snake_case form of the Go name. The following tags are recognised:
//
//	stratum:"name,skip,cache,secret,flatten,prefix=p,generate=uuid"
//	default:"8080"
//	validate:"min=1,max=65535"
//	usage:"port the server listens on"
//
// A name of "-" excludes the field. Derived schemas are memoised per type.
func SchemaOf(v any) (*Schema, error) {
	return schemaForType(reflect.TypeOf(v))
}

// SchemaFor is the generic form of SchemaOf.
func SchemaFor[T any]() (*Schema, error) {
	return schemaForType(reflect.TypeFor[T]())
}

func schemaForType(t reflect.Type) (*Schema, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &SchemaError{Problems: []string{fmt.Sprintf("cannot derive a schema from %v: not a struct", t)}}
	}

	if s, ok := schemaCache.Load(t); ok {
		return s.(*Schema), nil
	}

	var problems []string
	fields := structFields(t, nil, &problems)
	if len(problems) > 0 {
		return nil, &SchemaError{Problems: problems}
	}

	s, err := NewSchema(fields...)
	if err != nil {
		return nil, err
	}
	s.typ = t

	actual, _ := schemaCache.LoadOrStore(t, s)
	return actual.(*Schema), nil
}

func structFields(t reflect.Type, parent []int, problems *[]string) []Field {
	fields := []Field{}
	for i := range t.NumField() {
		sf := t.Field(i)
		name, opts, _ := strings.Cut(sf.Tag.Get("stratum"), ",")
		if name == "-" {
			continue
		}
		index := append(slices.Clone(parent), i)

		if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
			fields = append(fields, structFields(sf.Type, index, problems)...)
			continue
		}
		if !sf.IsExported() {
			continue
		}

		if name == "" {
			name = toSnake(sf.Name)
		}
		where := t.Name() + "." + sf.Name

		f := Field{
			Name:     name,
			Validate: sf.Tag.Get("validate"),
			Usage:    sf.Tag.Get("usage"),
			index:    index,
		}
		if def, ok := sf.Tag.Lookup("default"); ok {
			f.Default = def
			f.HasDefault = true
		}

		if opts != "" {
			for _, opt := range strings.Split(opts, ",") {
				key, val, _ := strings.Cut(strings.TrimSpace(opt), "=")
				switch key {
				case "skip":
					f.Skip = true
				case "cache":
					f.Cache = true
				case "secret":
					f.Secret = true
				case "flatten":
					f.Flatten = true
				case "prefix":
					f.Prefix = val
				case "generate":
					gen, ok := generators[val]
					if !ok {
						*problems = append(*problems, fmt.Sprintf("%s: unknown generator %q", where, val))
						continue
					}
					f.DefaultFunc = gen
				default:
					*problems = append(*problems, fmt.Sprintf("%s: unknown tag option %q", where, key))
				}
			}
		}

		if sf.Type.Kind() == reflect.Struct {
			f.Children = structFields(sf.Type, index, problems)
			fields = append(fields, f)
			continue
		}

		typ, ok := typeOf(sf.Type)
		if !ok {
			*problems = append(*problems, fmt.Sprintf("%s: unsupported field type %s", where, sf.Type))
			continue
		}
		f.Type = typ
		fields = append(fields, f)
	}
	return fields
}

// typeOf maps a Go type to the leaf Type whose parsed value converts to it.
func typeOf(t reflect.Type) (Type, bool) {
	if t == durationType {
		return Duration, true
	}
	switch t.Kind() {
	case reflect.String:
		return String, true
	case reflect.Bool:
		return Bool, true
	case reflect.Int:
		return Int, true
	case reflect.Int8:
		return Int8, true
	case reflect.Int16:
		return Int16, true
	case reflect.Int32:
		return Int32, true
	case reflect.Int64:
		return Int64, true
	case reflect.Uint:
		return Uint, true
	case reflect.Uint8:
		return Uint8, true
	case reflect.Uint16:
		return Uint16, true
	case reflect.Uint32:
		return Uint32, true
	case reflect.Uint64:
		return Uint64, true
	case reflect.Float32:
		return Float32, true
	case reflect.Float64:
		return Float64, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return StringSlice, true
		}
	}
	return "", false
}

// Decode stores the resolved values into dst, which must be a pointer to the struct type
// the schema was derived from. Named types are converted from the leaf's Go type, so a
// field of type `type Port uint16` works. Skipped fields are left untouched.
func (r *Resolved) Decode(dst any) error {
	if r.schema.typ == nil {
		return errors.New("decode: schema was not derived from a struct")
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode: destination must be a non-nil pointer, got %T", dst)
	}
	rv = rv.Elem()
	if rv.Type() != r.schema.typ {
		return fmt.Errorf("decode: destination is %s, schema describes %s", rv.Type(), r.schema.typ)
	}

	for _, leaf := range r.schema.leaves {
		v, ok := r.Get(leaf.Key)
		if !ok {
			continue
		}
		field := rv.FieldByIndex(leaf.fieldIndex)
		typed := v.Typed
		if s, ok := typed.([]string); ok {
			typed = slices.Clone(s)
		}
		tv := reflect.ValueOf(typed)
		if !tv.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("decode %s: %w: cannot assign %s to %s", leaf.Key, ErrTypeMismatch, tv.Type(), field.Type())
		}
		field.Set(tv.Convert(field.Type()))
	}
	return nil
}

// Load derives the schema of T, resolves it against src and decodes the result.
func Load[T any](ctx context.Context, src Sources, opts ...Option) (T, error) {
	var out T
	schema, err := SchemaFor[T]()
	if err != nil {
		return out, err
	}
	res, err := Resolve(ctx, schema, src, opts...)
	if err != nil {
		return out, err
	}
	if err := res.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
