package sqlite_test

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stratum/database/sqlite"

	_ "modernc.org/sqlite" // SQLite driver
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// openTestDB opens a private in-memory database. A single connection keeps every query
// on the same in-memory instance.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "failed to open")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// setupTestRepo creates a repo with a unique table name for test isolation
func setupTestRepo(t *testing.T) *sqlite.Repo {
	t.Helper()
	ctx := context.Background()

	db := openTestDB(t)
	table := fmt.Sprintf("cache_%s", getRandomString(t))

	require.NoError(t, sqlite.Migrate(ctx, db, table), "failed to migrate")

	repo, err := sqlite.NewRepo(db, table)
	require.NoError(t, err)

	return repo
}
