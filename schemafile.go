package stratum

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// schemaFile is the YAML form of a schema:
//
//	fields:
//	  - name: host
//	    type: string
//	    default: localhost
//	  - name: database
//	    fields:
//	      - name: pool
//	        flatten: true
//	        prefix: database_pool
//	        fields:
//	          - name: timeout_ms
//	            type: int
//	            default: 5000
type schemaFile struct {
	Fields []fieldSpec `yaml:"fields"`
}

type fieldSpec struct {
	Name     string      `yaml:"name"`
	Type     Type        `yaml:"type"`
	Default  *yaml.Node  `yaml:"default"`
	Generate string      `yaml:"generate"`
	Skip     bool        `yaml:"skip"`
	Cache    bool        `yaml:"cache"`
	Secret   bool        `yaml:"secret"`
	Validate string      `yaml:"validate"`
	Usage    string      `yaml:"usage"`
	Flatten  bool        `yaml:"flatten"`
	Prefix   string      `yaml:"prefix"`
	Fields   []fieldSpec `yaml:"fields"`
}

// ParseSchemaYAML builds a schema from its YAML definition. Unknown keys are rejected.
func ParseSchemaYAML(data []byte) (*Schema, error) {
	var file schemaFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse schema: %w", ErrSchemaDefinition, err)
	}
	if len(file.Fields) == 0 {
		return nil, &SchemaError{Problems: []string{"schema declares no fields"}}
	}

	var problems []string
	fields := toFields(file.Fields, "", &problems)
	if len(problems) > 0 {
		return nil, &SchemaError{Problems: problems}
	}
	return NewSchema(fields...)
}

// LoadSchemaFile reads and parses a YAML schema definition.
func LoadSchemaFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	s, err := ParseSchemaYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func toFields(specs []fieldSpec, where string, problems *[]string) []Field {
	fields := make([]Field, 0, len(specs))
	for _, spec := range specs {
		label := spec.Name
		if where != "" {
			label = where + "." + spec.Name
		}

		f := Field{
			Name:     spec.Name,
			Type:     spec.Type,
			Skip:     spec.Skip,
			Cache:    spec.Cache,
			Secret:   spec.Secret,
			Validate: spec.Validate,
			Usage:    spec.Usage,
			Flatten:  spec.Flatten,
			Prefix:   spec.Prefix,
		}

		if spec.Fields != nil {
			if spec.Type != "" {
				*problems = append(*problems, fmt.Sprintf("%s: nested field cannot declare a type", label))
			}
			f.Children = toFields(spec.Fields, label, problems)
			fields = append(fields, f)
			continue
		}

		if spec.Default != nil {
			def, ok, err := defaultText(spec.Default)
			if err != nil {
				*problems = append(*problems, fmt.Sprintf("%s: %v", label, err))
			}
			f.Default, f.HasDefault = def, ok
		}
		if spec.Generate != "" {
			gen, ok := generators[spec.Generate]
			if !ok {
				*problems = append(*problems, fmt.Sprintf("%s: unknown generator %q", label, spec.Generate))
			}
			f.DefaultFunc = gen
		}
		fields = append(fields, f)
	}
	return fields
}

// defaultText returns the raw text of a YAML default. Scalars keep their literal form and
// sequences of scalars are joined with ",". An explicit null means no default.
func defaultText(n *yaml.Node) (string, bool, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "", false, nil
		}
		return n.Value, true, nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return "", false, errors.New("default list must contain scalars only")
			}
			items = append(items, c.Value)
		}
		return strings.Join(items, ","), true, nil
	default:
		return "", false, errors.New("default must be a scalar or a list of scalars")
	}
}
