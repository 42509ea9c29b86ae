package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	dirPermissions  = 0750
	filePermissions = 0600

	openPingTimeout = 5 * time.Second
	maxConnIdleTime = 30 * time.Minute
)

// DB is the service's SQLite handle. It embeds *sql.DB, so callers use
// the standard query API directly; the wrapper adds migrations and
// health checking.
type DB struct {
	*sql.DB
	path string
}

// Config mirrors the database section of the service configuration.
type Config struct {
	// Path to the SQLite file. The parent directory is created on open.
	Path string

	// WALMode enables write-ahead logging so reads proceed during writes.
	WALMode bool

	// BusyTimeout is how long a statement waits on a lock, in seconds.
	BusyTimeout int
}

// Open opens (creating if needed) the SQLite database and verifies it
// with a ping.
//
// Pragmas are applied through the DSN: foreign keys always on, busy
// timeout per config, and WAL with NORMAL synchronous when enabled. The
// pool is pinned to a single connection; SQLite allows one writer, and
// a single shared connection also makes the pragmas apply everywhere.
//
// Returns:
//   - *DB: Open handle ready for migrations and queries
//   - error: If the directory, file, or connection cannot be set up
func Open(cfg Config) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", cfg.Path, cfg.BusyTimeout*1000)
	if cfg.WALMode {
		dsn += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(maxConnIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), openPingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close() //nolint:errcheck // best effort on the error path
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	// Tighten file permissions; on the very first open the file may not
	// exist until the first write, so a failure here is fine.
	_ = os.Chmod(cfg.Path, filePermissions) //nolint:errcheck

	return &DB{DB: sqlDB, path: cfg.Path}, nil
}

// Close releases the underlying connection. Safe on a zero-value DB.
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// Path returns the filesystem location of the database file.
func (db *DB) Path() string {
	return db.path
}

// HealthCheck runs a trivial query to confirm the connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	return nil
}
