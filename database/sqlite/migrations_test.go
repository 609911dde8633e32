package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stratum/database/sqlite"
)

func TestMigrate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	table := fmt.Sprintf("cache_%s", getRandomString(t))

	assert.Error(t, sqlite.ValidateSchema(ctx, db, table), "validate should fail without tables")

	require.NoError(t, sqlite.Migrate(ctx, db, table))
	require.NoError(t, sqlite.Migrate(ctx, db, table), "migrate should be idempotent")
	assert.NoError(t, sqlite.ValidateSchema(ctx, db, table), "validate should pass after migration")

	require.NoError(t, sqlite.DropTables(ctx, db, table))
	assert.Error(t, sqlite.ValidateSchema(ctx, db, table), "validate should fail after drop")
}

func TestValidateSchema_Mismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	table := fmt.Sprintf("cache_%s", getRandomString(t))

	_, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %q (id TEXT NOT NULL PRIMARY KEY, key TEXT, value INTEGER NOT NULL)`, table))
	require.NoError(t, err)

	err = sqlite.ValidateSchema(ctx, db, table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing columns")
	assert.Contains(t, err.Error(), "value: expected text, got integer")
	assert.Contains(t, err.Error(), "key: expected nullable=false, got nullable=true")
}

func TestValidateSchema_InvalidTableName(t *testing.T) {
	t.Parallel()
	err := sqlite.ValidateSchema(context.Background(), openTestDB(t), "bad name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}
