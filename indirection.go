package stratum

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// indirectionKey is the only key allowed in an indirection table: { env = "NAME" }.
const indirectionKey = "env"

// ResolveIndirections turns the raw document of a config file into a Document keyed by
// leaf key. raw may be nested tables, flat dotted keys, or any mix of the two.
//
// A value written as { env = "NAME" } is replaced by the environment variable NAME. When
// NAME is unset the leaf is left out of the document and a ProblemIndirection entry is
// returned instead, naming both the key and the variable. Scalars are stringified; lists
// are joined with ",". Any other table where a leaf is expected is a ProblemInvalid.
//
// The function is pure apart from read-only environment lookups.
func ResolveIndirections(schema *Schema, raw map[string]any, env EnvSource) (Document, []*FieldError) {
	values := map[string]string{}
	var errs []*FieldError

	for _, leaf := range schema.leaves {
		if leaf.Skipped {
			continue
		}
		v, ok := lookupRaw(raw, leaf.Path)
		if !ok || v == nil {
			continue
		}

		if table, isTable := asTable(v); isTable {
			name, isRef := indirection(table)
			if !isRef {
				errs = append(errs, &FieldError{
					Key:     leaf.Key,
					Problem: ProblemInvalid,
					Raw:     fmt.Sprint(v),
					Reason:  `expected a value or { env = "NAME" }`,
					Source:  SourceFile,
					Secret:  leaf.Secret,
					order:   leaf.order,
				})
				continue
			}
			resolved, found := "", false
			if env != nil {
				resolved, found = env.LookupEnv(name)
			}
			if !found {
				errs = append(errs, &FieldError{
					Key:     leaf.Key,
					Problem: ProblemIndirection,
					Var:     name,
					Source:  SourceFile,
					order:   leaf.order,
				})
				continue
			}
			values[leaf.Key] = resolved
			continue
		}

		s, err := stringify(v)
		if err != nil {
			errs = append(errs, &FieldError{
				Key:     leaf.Key,
				Problem: ProblemInvalid,
				Raw:     fmt.Sprint(v),
				Reason:  err.Error(),
				Source:  SourceFile,
				Secret:  leaf.Secret,
				order:   leaf.order,
			})
			continue
		}
		values[leaf.Key] = s
	}

	return NewDocument(SourceFile, values), errs
}

// indirection reports whether table is exactly { env = "NAME" } with a non-empty name.
func indirection(table map[string]any) (string, bool) {
	if len(table) != 1 {
		return "", false
	}
	v, ok := lookupKey(table, indirectionKey)
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	if !ok || strings.TrimSpace(name) == "" {
		return "", false
	}
	return strings.TrimSpace(name), true
}

// lookupRaw finds path in m. At every level the remaining segments are first tried as a
// single dotted key, then the first segment is descended into.
func lookupRaw(m map[string]any, path Path) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	if v, ok := lookupKey(m, path.String()); ok {
		return v, true
	}
	if len(path) == 1 {
		return nil, false
	}
	next, ok := lookupKey(m, path[0])
	if !ok {
		return nil, false
	}
	table, ok := asTable(next)
	if !ok {
		return nil, false
	}
	return lookupRaw(table, path[1:])
}

// lookupKey matches key exactly, then case-insensitively. Among several keys that differ
// only in case, the lowest in byte order wins.
func lookupKey(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	match, found := "", false
	for k := range m {
		if strings.EqualFold(k, key) && (!found || k < match) {
			match, found = k, true
		}
	}
	if !found {
		return nil, false
	}
	return m[match], true
}

func asTable(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[fmt.Sprint(k)] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func stringify(v any) (string, error) {
	switch t := v.(type) {
	case []any:
		parts := make([]string, 0, len(t))
		for i, el := range t {
			if _, nested := asTable(el); nested {
				return "", fmt.Errorf("list element %d is a table", i)
			}
			s, err := cast.ToStringE(el)
			if err != nil {
				return "", fmt.Errorf("list element %d: %w", i, err)
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	case []string:
		return strings.Join(t, ","), nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return "", fmt.Errorf("unsupported value of type %T", v)
		}
		return s, nil
	}
}
