package stratum

import (
	"fmt"
	"slices"
	"strings"
)

// Problem classifies a FieldError.
type Problem int

const (
	// ProblemMissing is a required leaf no source supplied.
	ProblemMissing Problem = iota + 1
	// ProblemInvalid is a value that failed type conversion or validation.
	ProblemInvalid
	// ProblemIndirection is a file value {env = "NAME"} whose variable is unset.
	ProblemIndirection
)

func (p Problem) String() string {
	switch p {
	case ProblemMissing:
		return "missing"
	case ProblemInvalid:
		return "invalid"
	case ProblemIndirection:
		return "indirection"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Problem) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Problem) UnmarshalText(text []byte) error {
	for _, c := range []Problem{ProblemMissing, ProblemInvalid, ProblemIndirection} {
		if c.String() == string(text) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("invalid problem: %s", text)
}

// FieldError is one entry of a Report.
type FieldError struct {
	Key     string
	Problem Problem
	// Raw is the rejected value for ProblemInvalid.
	Raw string
	// Reason explains a ProblemInvalid.
	Reason string
	// Var is the environment variable named by a ProblemIndirection.
	Var string
	// Source is where the rejected value came from, if any.
	Source SourceKind
	Secret bool

	order int
}

func (e *FieldError) Error() string {
	switch e.Problem {
	case ProblemMissing:
		return e.Key + ": missing required value"
	case ProblemIndirection:
		return fmt.Sprintf("%s: environment variable %s is not set", e.Key, e.Var)
	default:
		raw := fmt.Sprintf("%q", e.Raw)
		if e.Secret {
			raw = maskedValue
		}
		if e.Source != 0 {
			return fmt.Sprintf("%s: %s from %s: %s", e.Key, raw, e.Source, e.Reason)
		}
		return fmt.Sprintf("%s: %s: %s", e.Key, raw, e.Reason)
	}
}

// Unwrap returns the sentinel matching the problem, so errors.Is works on entries.
func (e *FieldError) Unwrap() error {
	switch e.Problem {
	case ProblemMissing:
		return ErrMissingRequired
	case ProblemIndirection:
		return ErrMissingIndirection
	default:
		return ErrInvalidValue
	}
}

// Report is the aggregated failure of a resolution: every missing, invalid and unresolved
// field, in schema declaration order. It is never truncated after the first entry.
type Report struct {
	Errors []*FieldError
}

func newReport(errs []*FieldError) *Report {
	sorted := slices.Clone(errs)
	slices.SortStableFunc(sorted, func(a, b *FieldError) int {
		return a.order - b.order
	})
	return &Report{Errors: sorted}
}

// Error renders the report as a multi-line message:
//
//	Missing required configuration fields:
//	  - host
//	  - port
//	Invalid configuration values:
//	  - debug: "maybe" from env: not a valid bool
func (r *Report) Error() string {
	var b strings.Builder
	section := func(title string, p Problem, line func(*FieldError) string) {
		first := true
		for _, e := range r.Errors {
			if e.Problem != p {
				continue
			}
			if first {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(title)
				first = false
			}
			b.WriteString("\n  - ")
			b.WriteString(line(e))
		}
	}

	section("Missing required configuration fields:", ProblemMissing, func(e *FieldError) string {
		return e.Key
	})
	section("Invalid configuration values:", ProblemInvalid, func(e *FieldError) string {
		return e.Error()
	})
	section("Unresolved environment indirections:", ProblemIndirection, func(e *FieldError) string {
		return e.Error()
	})
	return b.String()
}

// Unwrap exposes every entry to errors.Is and errors.As.
func (r *Report) Unwrap() []error {
	out := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e
	}
	return out
}

// Len returns the number of entries.
func (r *Report) Len() int {
	return len(r.Errors)
}

// Keys returns the key of every entry, in report order.
func (r *Report) Keys() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Key
	}
	return out
}

// Missing returns the keys of required fields no source supplied.
func (r *Report) Missing() []string {
	return r.keys(ProblemMissing)
}

// Invalid returns the keys of fields whose value was rejected.
func (r *Report) Invalid() []string {
	return r.keys(ProblemInvalid)
}

func (r *Report) keys(p Problem) []string {
	var out []string
	for _, e := range r.Errors {
		if e.Problem == p {
			out = append(out, e.Key)
		}
	}
	return out
}
