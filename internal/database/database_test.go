package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLiteInMemory(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.DSN = ":memory:"
	cfg.MaxIdleConns = 2
	cfg.MaxOpenConns = 4
	cfg.ConnMaxLifetime = time.Minute

	db, err := Open(cfg, nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenEmptyDriverDefaultsToSQLite(t *testing.T) {
	t.Parallel()

	db, err := Open(Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
}

func TestOpenUnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(Config{Driver: "oracle", DSN: "whatever"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
