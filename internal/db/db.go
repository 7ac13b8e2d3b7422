package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/xxxsen/mdesign/internal/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := cfg.DSN
	switch cfg.Driver {
	case config.DriverSQLite:
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
		}
	case config.DriverPostgres:
		if dsn == "" {
			sslmode := cfg.SSLMode
			if sslmode == "" {
				sslmode = "disable"
			}
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslmode)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	conn, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}
	if cfg.Driver == config.DriverSQLite {
		// sqlite allows one writer; a single connection serializes access.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return sqlx.NewDb(conn, cfg.Driver), nil
}

func ApplyMigrations(db *sqlx.DB) error {
	dir := "migrations/" + db.DriverName()
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("read migrations for %s: %w", db.DriverName(), err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	for _, file := range files {
		content, err := fs.ReadFile(migrationsFS, dir+"/"+file)
		if err != nil {
			return err
		}
		queries := strings.Split(string(content), ";")
		for _, q := range queries {
			q = strings.TrimSpace(q)
			if q == "" {
				continue
			}
			if _, err := db.Exec(q); err != nil {
				return fmt.Errorf("execute query in %s: %w", file, err)
			}
		}
	}
	return nil
}
