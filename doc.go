// Package stratum resolves layered application configuration.
//
// A Schema describes the configuration as a tree of typed fields. Resolution collects one
// Document from each of four sources, merges them by precedence and validates the result
// into an immutable, typed Resolved value. Every missing or invalid field is reported
// together in a single *Report.
//
// # Precedence
//
// From highest to lowest:
//
//   - SourceFlags: command-line flags the user actually set
//   - SourceFile: configuration file values, after {env="NAME"} indirections are resolved
//   - SourceEnv: environment variables named PREFIX_SEGMENT_SEGMENT
//   - SourceCache: values persisted by earlier resolutions (cacheable fields only)
//
// Fields absent from every source take their default, or are reported missing.
//
// # Key Components
//
//   - Schema / Field / Leaf: declarative field tree and its compiled leaves
//   - Flatten: computes leaf paths, honoring nested and flattened sub-schemas
//   - ResolveIndirections: turns a raw file document into a Document
//   - Merge: combines documents into an Effective mapping with provenance
//   - Validate: parses, checks and defaults every leaf, returning Resolved or *Report
//   - CacheWriter: persists cacheable values after a successful resolution
//   - Resolver / Handle: the full pipeline and a reloadable shared holder
//
// # Example Usage
//
//	schema := stratum.MustSchema(
//	    stratum.Scalar("host", stratum.String),
//	    stratum.Scalar("port", stratum.Uint16, stratum.Validated("min=1")),
//	    stratum.Scalar("debug", stratum.Bool, stratum.WithDefault("false")),
//	)
//
//	res, err := stratum.Resolve(ctx, schema, stratum.Sources{
//	    Flags: flags,
//	    File:  file,
//	    Env:   stratum.OSEnv{},
//	}, stratum.WithEnvPrefix("APP"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	port := stratum.MustGet[uint16](res, "port")
//
// Schemas can also be derived from struct tags with SchemaOf, or read from a YAML file
// with LoadSchemaFile. See the source package for pflag, viper and .env collectors and the
// cachebackend package for cache stores.
package stratum
