// Package database connects the configuration cache to a SQL backend.
//
// The package supports PostgreSQL and SQLite and handles connection management,
// migrations, and schema validation automatically.
//
// # Supported Backends
//
//   - PostgreSQL: pgx connection pool, suitable for caches shared between hosts
//   - SQLite: embedded backend for single-host deployments and tests
//
// # Usage
//
//	store, cleanup, err := database.Connect(ctx, database.Config{
//	    Type: "sqlite",
//	    DSN:  "stratum.db",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cleanup()
//
//	resolved, err := stratum.Resolve(ctx, schema, stratum.Sources{Cache: store})
//
// Connect opens the connection, creates the cache table when it is missing,
// validates its columns, and returns a Store.
//
// # Subpackages
//
//   - database/postgres: PostgreSQL implementation using pgx
//   - database/sqlite: SQLite implementation using modernc.org/sqlite
package database
