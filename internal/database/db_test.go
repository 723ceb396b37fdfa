package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-collection/internal/config"
)

func TestDSN(t *testing.T) {
	dsn, err := DSN(config.Config{DBDriver: DriverSQLite, DBPath: "movies.db"})
	require.NoError(t, err)
	assert.Equal(t, "file:movies.db?_foreign_keys=on&_busy_timeout=5000", dsn)

	dsn, err = DSN(config.Config{DBDriver: DriverMySQL, DBUser: "u", DBPass: "p", DBHost: "h", DBPort: "3306", DBName: "n"})
	require.NoError(t, err)
	assert.Equal(t, "u:p@tcp(h:3306)/n?charset=utf8mb4&parseTime=true&loc=UTC", dsn)

	_, err = DSN(config.Config{DBDriver: "postgres"})
	assert.Error(t, err)
}

func TestOpenAndMigrateSQLiteFile(t *testing.T) {
	cfg := config.Config{DBDriver: DriverSQLite, DBPath: t.TempDir() + "/test.db"}
	db, err := Open(cfg)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db, DriverSQLite))
	// running twice is a no-op
	require.NoError(t, Migrate(ctx, db, DriverSQLite))

	for _, table := range []string{"users", "movies"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
	}

	// movies.user_id must reference an existing user
	_, err = db.ExecContext(ctx, "INSERT INTO movies (user_id, title) VALUES (99, 'orphan')")
	assert.Error(t, err)
}

func TestMigrateUnknownDriver(t *testing.T) {
	assert.Error(t, Migrate(context.Background(), (*sql.DB)(nil), "oracle"))
}
