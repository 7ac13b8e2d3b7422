package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/mdesign/internal/config"
	"github.com/xxxsen/mdesign/internal/db"
)

// OpenTestDB opens a migrated sqlite database that lives for the duration
// of the test.
func OpenTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := db.Open(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "mdesign_test.db"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}
