package stratum

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every schema; validator.Validate caches parsed tags and is safe
// for concurrent use.
var validate = validator.New()

// Validate walks every leaf of schema against eff. Skipped leaves are ignored, absent
// optional leaves take their default, present values are parsed into the leaf type and
// checked against the leaf's validation tag. Every failure is collected; if there is at
// least one, the *Report is returned and no Resolved is built.
func Validate(schema *Schema, eff *Effective) (*Resolved, error) {
	return validateEffective(schema, eff, nil)
}

// outranked drops the source problems of leaves whose merged value comes from a source
// with higher precedence than the one that reported the problem.
func outranked(eff *Effective, prior []*FieldError) []*FieldError {
	var out []*FieldError
	for _, e := range prior {
		if _, origin, ok := eff.Lookup(e.Key); ok && e.Source != 0 && origin.rank() < e.Source.rank() {
			continue
		}
		out = append(out, e)
	}
	return out
}

func validateEffective(schema *Schema, eff *Effective, prior []*FieldError) (*Resolved, error) {
	errs := outranked(eff, prior)
	failed := make(map[string]bool, len(errs))
	for _, e := range errs {
		failed[e.Key] = true
	}

	values := make([]Value, 0, schema.Len())
	for _, leaf := range schema.leaves {
		if leaf.Skipped {
			continue
		}

		raw, source, present := eff.Lookup(leaf.Key)
		if !present {
			if failed[leaf.Key] {
				// Already reported (ex: a broken indirection); do not also report it missing.
				continue
			}
			if leaf.Required {
				errs = append(errs, &FieldError{Key: leaf.Key, Problem: ProblemMissing, order: leaf.order})
				continue
			}
			def, _, err := leaf.DefaultValue()
			if err != nil {
				errs = append(errs, invalid(leaf, def, SourceDefault, err.Error()))
				continue
			}
			raw, source = def, SourceDefault
		}

		typed, err := leaf.Type.Parse(raw)
		if err != nil {
			errs = append(errs, invalid(leaf, raw, source, err.Error()))
			continue
		}
		if reason := checkRule(leaf, typed); reason != "" {
			errs = append(errs, invalid(leaf, raw, source, reason))
			continue
		}

		values = append(values, Value{
			Key:    leaf.Key,
			Type:   leaf.Type,
			Raw:    raw,
			Typed:  typed,
			Source: source,
			Secret: leaf.Secret,
		})
	}

	if len(errs) > 0 {
		return nil, newReport(errs)
	}
	return newResolved(schema, values), nil
}

func invalid(leaf Leaf, raw string, source SourceKind, reason string) *FieldError {
	return &FieldError{
		Key:     leaf.Key,
		Problem: ProblemInvalid,
		Raw:     raw,
		Reason:  reason,
		Source:  source,
		Secret:  leaf.Secret,
		order:   leaf.order,
	}
}

// checkRule applies the leaf's validation tag to typed and returns a readable reason
// on failure.
func checkRule(leaf Leaf, typed any) string {
	if leaf.Validate == "" {
		return ""
	}
	err := validate.Var(typed, leaf.Validate)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("must satisfy %s", fe.Tag())
	}
	return err.Error()
}

// checkValidateTag runs the tag once against the zero value of the leaf type, so unknown
// validators are reported when the schema is built rather than at resolution.
func checkValidateTag(leaf Leaf) (err error) {
	if leaf.Validate == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid validation tag %q: %v", leaf.Validate, r)
		}
	}()
	_ = validate.Var(zeroValue(leaf.Type), leaf.Validate)
	return nil
}

// checkDefault parses and validates a static default.
func checkDefault(leaf Leaf) error {
	typed, err := leaf.Type.Parse(leaf.Default)
	if err != nil {
		return err
	}
	if reason := checkRule(leaf, typed); reason != "" {
		return errors.New(reason)
	}
	return nil
}

func zeroValue(t Type) any {
	switch t {
	case Bool:
		return false
	case Int:
		return 0
	case Int8:
		return int8(0)
	case Int16:
		return int16(0)
	case Int32:
		return int32(0)
	case Int64:
		return int64(0)
	case Uint:
		return uint(0)
	case Uint8:
		return uint8(0)
	case Uint16:
		return uint16(0)
	case Uint32:
		return uint32(0)
	case Uint64:
		return uint64(0)
	case Float32:
		return float32(0)
	case Float64:
		return float64(0)
	case Duration:
		return time.Duration(0)
	case StringSlice:
		return []string{}
	default:
		return ""
	}
}

// goType returns the reflect type Parse produces for t.
func goType(t Type) reflect.Type {
	return reflect.TypeOf(zeroValue(t))
}
