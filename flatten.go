package stratum

import (
	"fmt"
)

// scope is where the children of a node are placed.
type scope struct {
	path   Path   // path of the enclosing nested node; nil at the root
	prefix string // set when the enclosing node is flattened
}

func (s scope) join(name string) Path {
	if s.prefix != "" {
		return Path{s.prefix + "_" + name}
	}
	return s.path.child(name)
}

// Flatten computes the fully-qualified path of every leaf in fields.
//
// A nested field places its children under its own path ("database.pool.min_size").
// A flattened field hoists its children into the root namespace as a single segment
// "<prefix>_<name>", where prefix is the field's Prefix or, if empty, its Name. Prefixes
// do not chain: a flattened node nested anywhere starts again from the root, so two parents
// sharing a flattened child must give it distinct prefixes.
//
// Every problem found (invalid names or types, duplicate keys, env or flag name
// collisions, keys that are both a leaf and a parent, bad defaults or validation tags) is
// collected into one *SchemaError.
func Flatten(fields []Field) ([]Leaf, error) {
	var (
		leaves   []Leaf
		problems []string
	)

	var walk func(fields []Field, sc scope, where string)
	walk = func(fields []Field, sc scope, where string) {
		for _, f := range fields {
			label := f.Name
			if where != "" {
				label = where + "." + f.Name
			}

			if !IsValidSegment(f.Name) {
				problems = append(problems, fmt.Sprintf("%s: invalid field name %q (must match ^[a-z][a-z0-9_]*$)", label, f.Name))
				continue
			}

			if f.IsNested() {
				if len(f.Children) == 0 {
					problems = append(problems, fmt.Sprintf("%s: nested field has no children", label))
					continue
				}
				if f.Prefix != "" && !f.Flatten {
					problems = append(problems, fmt.Sprintf("%s: prefix %q set on a field that is not flattened", label, f.Prefix))
				}
				child := scope{path: sc.join(f.Name)}
				if f.Flatten {
					prefix := f.Prefix
					if prefix == "" {
						prefix = f.Name
					}
					if !IsValidSegment(prefix) {
						problems = append(problems, fmt.Sprintf("%s: invalid prefix %q", label, prefix))
						continue
					}
					child = scope{prefix: prefix}
				}
				walk(f.Children, child, label)
				continue
			}

			if f.Flatten || f.Prefix != "" {
				problems = append(problems, fmt.Sprintf("%s: only nested fields can be flattened", label))
			}
			if !f.Type.IsValid() {
				problems = append(problems, fmt.Sprintf("%s: unsupported type %q", label, string(f.Type)))
				continue
			}

			path := sc.join(f.Name)
			leaf := Leaf{
				Path:        path,
				Key:         path.String(),
				Type:        f.Type,
				Skipped:     f.Skip,
				Cacheable:   f.Cache && !f.Skip,
				Secret:      f.Secret,
				Default:     f.Default,
				HasDefault:  f.HasDefault || f.DefaultFunc != nil,
				Validate:    f.Validate,
				Usage:       f.Usage,
				defaultFunc: f.DefaultFunc,
				fieldIndex:  f.index,
				order:       len(leaves),
				origin:      label,
			}
			leaf.Required = !leaf.HasDefault && !leaf.Skipped

			if err := checkValidateTag(leaf); err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", leaf.Key, err))
			} else if f.HasDefault && f.DefaultFunc == nil {
				if err := checkDefault(leaf); err != nil {
					problems = append(problems, fmt.Sprintf("%s: invalid default %q: %v", leaf.Key, f.Default, err))
				}
			}

			leaves = append(leaves, leaf)
		}
	}
	walk(fields, scope{}, "")

	problems = append(problems, collisions(leaves)...)

	if len(problems) > 0 {
		return nil, &SchemaError{Problems: problems}
	}
	return leaves, nil
}

// collisions reports leaves that cannot be told apart by key, env name or flag name, and
// keys that are a strict path prefix of another key.
func collisions(leaves []Leaf) []string {
	var problems []string

	byKey := map[string]string{}
	byEnv := map[string]string{}
	for _, l := range leaves {
		if prev, ok := byKey[l.Key]; ok {
			problems = append(problems, fmt.Sprintf("%s: declared by both %s and %s", l.Key, prev, l.origin))
			continue
		}
		byKey[l.Key] = l.origin

		// "." and "_" both map to the same separator in env and flag names, so one check
		// covers both.
		env := l.EnvName("")
		if prev, ok := byEnv[env]; ok {
			problems = append(problems, fmt.Sprintf("%s: environment name %s and flag --%s collide with %s", l.Key, env, l.FlagName(), prev))
			continue
		}
		byEnv[env] = l.Key
	}

	for _, l := range leaves {
		for i := 1; i < len(l.Path); i++ {
			parent := l.Path[:i].String()
			if _, ok := byKey[parent]; ok {
				problems = append(problems, fmt.Sprintf("%s: key is both a value and a parent of %s", parent, l.Key))
			}
		}
	}

	return problems
}
