package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck

	return db
}

func TestOpen(t *testing.T) {
	t.Run("creates file and parent directories", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "core.db")

		db, err := Open(Config{Path: dbPath, WALMode: true, BusyTimeout: 5})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close() //nolint:errcheck

		if _, err := os.Stat(dbPath); err != nil {
			t.Errorf("database file not created: %v", err)
		}
		if db.Path() != dbPath {
			t.Errorf("Path() = %q, want %q", db.Path(), dbPath)
		}
	})

	t.Run("single writer pool", func(t *testing.T) {
		db := openTestDB(t)

		if got := db.DB.Stats().MaxOpenConnections; got != 1 {
			t.Errorf("MaxOpenConnections = %d, want 1", got)
		}
	})

	t.Run("foreign keys enforced", func(t *testing.T) {
		db := openTestDB(t)
		ctx := context.Background()

		var fk int
		if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("PRAGMA foreign_keys: %v", err)
		}
		if fk != 1 {
			t.Errorf("foreign_keys = %d, want 1", fk)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestClose(t *testing.T) {
	db := openTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	var zero DB
	if err := zero.Close(); err != nil {
		t.Errorf("Close() on zero-value DB error = %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx,
		"CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT NOT NULL)"); err != nil {
		t.Fatalf("CREATE TABLE: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO kv (k, v) VALUES (?, ?)", "greeting", "hello"); err != nil {
		t.Fatalf("INSERT: %v", err)
	}

	var v string
	if err := db.QueryRowContext(ctx, "SELECT v FROM kv WHERE k = ?", "greeting").Scan(&v); err != nil {
		t.Fatalf("SELECT: %v", err)
	}
	if v != "hello" {
		t.Errorf("v = %q, want %q", v, "hello")
	}
}
