package e2e_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	testDSN     string
	testDSNErr  error
	testDSNOnce sync.Once
)

// getSharedPostgresDatabase returns the DSN of a PostgreSQL container shared by every
// e2e test.
func getSharedPostgresDatabase(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests skipped in short mode")
	}

	testDSNOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			testDSNErr = err
			return
		}

		testDSN, testDSNErr = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if testDSNErr != nil {
			return
		}

		pool, err := pgxpool.New(ctx, testDSN)
		if err != nil {
			testDSNErr = err
			return
		}
		defer pool.Close()
		testDSNErr = pool.Ping(ctx)
	})

	require.NoError(t, testDSNErr, "postgres container")
	return testDSN
}
