package stratum

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	errNotBool     = errors.New("not a valid bool")
	errNotDuration = errors.New("not a valid duration (ex: 30s, 5m)")
)

// SourceKind identifies where a raw value came from.
type SourceKind int

const (
	SourceFlags SourceKind = iota + 1
	SourceFile
	SourceEnv
	SourceCache
	// SourceDefault marks values taken from the schema when no source supplied the key.
	SourceDefault
)

// Precedence lists the sources from highest to lowest priority.
var Precedence = []SourceKind{SourceFlags, SourceFile, SourceEnv, SourceCache}

func (k SourceKind) String() string {
	switch k {
	case SourceFlags:
		return "flags"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "env"
	case SourceCache:
		return "cache"
	case SourceDefault:
		return "default"
	default:
		return "unknown"
	}
}

// rank returns the position of k in Precedence; lower wins.
func (k SourceKind) rank() int {
	for i, p := range Precedence {
		if p == k {
			return i
		}
	}
	return len(Precedence)
}

// MarshalText implements encoding.TextMarshaler so source kinds render as names in JSON.
func (k SourceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SourceKind) UnmarshalText(text []byte) error {
	parsed, err := ParseSourceKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseSourceKind converts a name produced by SourceKind.String back into a SourceKind.
func ParseSourceKind(s string) (SourceKind, error) {
	switch s {
	case "flags":
		return SourceFlags, nil
	case "file":
		return SourceFile, nil
	case "env":
		return SourceEnv, nil
	case "cache":
		return SourceCache, nil
	case "default":
		return SourceDefault, nil
	default:
		return 0, fmt.Errorf("invalid source kind: %s", s)
	}
}

// Type is the scalar type of a leaf.
type Type string

const (
	String      Type = "string"
	Bool        Type = "bool"
	Int         Type = "int"
	Int8        Type = "int8"
	Int16       Type = "int16"
	Int32       Type = "int32"
	Int64       Type = "int64"
	Uint        Type = "uint"
	Uint8       Type = "uint8"
	Uint16      Type = "uint16"
	Uint32      Type = "uint32"
	Uint64      Type = "uint64"
	Float32     Type = "float32"
	Float64     Type = "float64"
	Duration    Type = "duration"
	StringSlice Type = "[]string"
)

// IsValid reports whether t is one of the supported scalar types.
func (t Type) IsValid() bool {
	switch t {
	case String, Bool, Int, Int8, Int16, Int32, Int64,
		Uint, Uint8, Uint16, Uint32, Uint64,
		Float32, Float64, Duration, StringSlice:
		return true
	}
	return false
}

func (t Type) bitSize() int {
	switch t {
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int, Uint:
		return strconv.IntSize
	default:
		return 64
	}
}

// Parse converts raw into the Go value for t: string, bool, int..int64, uint..uint64,
// float32, float64, time.Duration or []string. Surrounding whitespace is ignored for every
// type except String.
func (t Type) Parse(raw string) (any, error) {
	switch t {
	case String:
		return raw, nil
	case Bool:
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, errNotBool
		}
		return v, nil
	case Int, Int8, Int16, Int32, Int64:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, t.bitSize())
		if err != nil {
			return nil, numError(t, err)
		}
		switch t {
		case Int:
			return int(v), nil
		case Int8:
			return int8(v), nil
		case Int16:
			return int16(v), nil
		case Int32:
			return int32(v), nil
		default:
			return v, nil
		}
	case Uint, Uint8, Uint16, Uint32, Uint64:
		v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, t.bitSize())
		if err != nil {
			return nil, numError(t, err)
		}
		switch t {
		case Uint:
			return uint(v), nil
		case Uint8:
			return uint8(v), nil
		case Uint16:
			return uint16(v), nil
		case Uint32:
			return uint32(v), nil
		default:
			return v, nil
		}
	case Float32, Float64:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), t.bitSize())
		if err != nil {
			return nil, numError(t, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("not a finite %s", t)
		}
		if t == Float32 {
			return float32(v), nil
		}
		return v, nil
	case Duration:
		v, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return nil, errNotDuration
		}
		return v, nil
	case StringSlice:
		return splitList(raw), nil
	default:
		return nil, fmt.Errorf("unsupported type %q", string(t))
	}
}

// Format renders a typed value back into the raw form accepted by Parse.
func (t Type) Format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	case time.Duration:
		return x.String()
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func numError(t Type, err error) error {
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return fmt.Errorf("out of range for %s", t)
	}
	return fmt.Errorf("not a valid %s", t)
}

func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
