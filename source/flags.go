package source

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/sagarc03/stratum"
)

// Flags is a stratum.FlagSource backed by a pflag.FlagSet. Only flags the user changed are
// reported, so an unset flag never shadows a lower-precedence source.
type Flags struct {
	set   *pflag.FlagSet
	names map[string]string // leaf key -> flag name
}

// RegisterFlags defines one flag per non-skipped leaf of schema on fs. Flags are named
// after the leaf (database.pool.min_size -> --database-pool-min-size); the usage text
// also names the environment variable for envPrefix. Boolean leaves accept a bare
// --flag. A flag name already defined on fs is left alone and not bound.
//
// List leaves take repeated or comma-separated values. The raw value of a list is
// comma-joined in every source, so an element cannot itself hold a comma: a CSV-quoted
// element such as --tags '"a,b"' ends up as two elements.
func RegisterFlags(fs *pflag.FlagSet, schema *stratum.Schema, envPrefix string) *Flags {
	f := &Flags{set: fs, names: map[string]string{}}

	for leaf := range schema.All() {
		if leaf.Skipped {
			continue
		}
		name := leaf.FlagName()
		if fs.Lookup(name) != nil {
			slog.Debug("flag already defined, not binding leaf", "flag", name, "key", leaf.Key)
			continue
		}

		usage := fmt.Sprintf("%s [env %s]", leaf.Usage, leaf.EnvName(envPrefix))
		usage = strings.TrimSpace(usage)
		if leaf.HasDefault && leaf.Default != "" {
			usage += fmt.Sprintf(" (default %q)", leaf.Default)
		}

		switch leaf.Type {
		case stratum.StringSlice:
			fs.StringSlice(name, nil, usage)
		default:
			fs.String(name, "", usage)
		}
		if leaf.Type == stratum.Bool {
			fs.Lookup(name).NoOptDefVal = "true"
		}
		f.names[leaf.Key] = name
	}
	return f
}

// Flag implements stratum.FlagSource.
func (f *Flags) Flag(key string) (string, bool) {
	name, ok := f.names[key]
	if !ok {
		return "", false
	}
	fl := f.set.Lookup(name)
	if fl == nil || !fl.Changed {
		return "", false
	}
	if sv, ok := fl.Value.(pflag.SliceValue); ok {
		return strings.Join(sv.GetSlice(), ","), true
	}
	return fl.Value.String(), true
}

// Names returns the leaf key to flag name mapping of the bound flags.
func (f *Flags) Names() map[string]string {
	out := make(map[string]string, len(f.names))
	for k, v := range f.names {
		out[k] = v
	}
	return out
}

// ParseOverrides turns "key=value" pairs, as given to a repeated --set flag, into a flag
// source. Keys must be valid dotted keys; later pairs win.
func ParseOverrides(pairs []string) (stratum.MapFlags, error) {
	out := stratum.MapFlags{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok {
			return nil, fmt.Errorf("%w: %q (expected key=value)", ErrInvalidOverride, pair)
		}
		if !stratum.IsValidKey(key) {
			return nil, fmt.Errorf("%w: invalid key %q", ErrInvalidOverride, key)
		}
		out[key] = value
	}
	return out, nil
}

// FirstFlag consults every source in order and returns the first value found.
type FirstFlag []stratum.FlagSource

// Flag implements stratum.FlagSource.
func (ff FirstFlag) Flag(key string) (string, bool) {
	for _, src := range ff {
		if src == nil {
			continue
		}
		if v, ok := src.Flag(key); ok {
			return v, true
		}
	}
	return "", false
}
