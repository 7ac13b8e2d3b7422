package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mdesign/internal/config"
)

func TestOpenSQLiteAndMigrateTwice(t *testing.T) {
	conn, err := Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, ApplyMigrations(conn))
	require.NoError(t, ApplyMigrations(conn))

	for _, table := range []string{"users", "projects", "assets"} {
		var name string
		err := conn.Get(&name, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		require.NoError(t, err)
		require.Equal(t, table, name)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql"})
	require.Error(t, err)
}
