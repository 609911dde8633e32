// Package config loads the stratum CLI's own settings.
//
// The settings are declared as struct tags on Config and resolved by the stratum
// engine itself, so they follow the same layering as any application using it.
//
// # Configuration Precedence
//
// Values are taken from the highest source that supplies them:
//
//  1. CLI flags (--log-level, --cache-type, ...)
//  2. Configuration file(s), merged left-to-right
//  3. Environment variables (STRATUM_ prefix)
//  4. Default values from the struct tags
//
// # Usage
//
//	flags := config.RegisterFlags(cmd.PersistentFlags())
//	cfg, err := config.Load(ctx, []string{"stratum.yaml"}, flags, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// Every key maps to an environment variable with the STRATUM_ prefix:
//   - log.level → STRATUM_LOG_LEVEL
//   - cache.type → STRATUM_CACHE_TYPE
//   - server.port → STRATUM_SERVER_PORT
//
// # Validation
//
// Failures are returned as a *stratum.Report listing every bad setting:
//   - Log level must be debug, info, warn, or error
//   - Cache type must be none, memory, file, sqlite, or postgres
//   - Port must be 1-65535
package config
