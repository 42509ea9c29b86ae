package database

import (
	"context"
	"embed"
	"testing"
)

//go:embed testdata/*.sql
var testMigrationsFS embed.FS

// useTestMigrations points the package at the testdata fixtures for the
// duration of one test.
func useTestMigrations(t *testing.T, fsys embed.FS, dir string) {
	t.Helper()

	origFS, origDir := MigrationsFS, MigrationsDir
	t.Cleanup(func() {
		MigrationsFS = origFS
		MigrationsDir = origDir
	})
	MigrationsFS = fsys
	MigrationsDir = dir
}

func TestMigrate(t *testing.T) {
	useTestMigrations(t, testMigrationsFS, "testdata")
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	var tableName string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='test_devices'",
	).Scan(&tableName)
	if err != nil {
		t.Fatalf("table test_devices not created: %v", err)
	}

	applied, pending, err := db.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if len(applied) != 1 || len(pending) != 0 {
		t.Errorf("status = %d applied, %d pending; want 1, 0", len(applied), len(pending))
	}

	// Idempotent on rerun.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	useTestMigrations(t, testMigrationsFS, "testdata")
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='test_devices'",
	).Scan(&count)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if count != 0 {
		t.Error("test_devices should have been dropped")
	}

	applied, pending, err := db.MigrationStatus(ctx)
	if err != nil {
		t.Fatalf("MigrationStatus() error = %v", err)
	}
	if len(applied) != 0 || len(pending) != 1 {
		t.Errorf("status after rollback = %d applied, %d pending; want 0, 1", len(applied), len(pending))
	}
}

func TestMigrate_NoEmbeddedMigrations(t *testing.T) {
	var emptyFS embed.FS
	useTestMigrations(t, emptyFS, ".")
	db := openTestDB(t)

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() with no migrations error = %v", err)
	}
}

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion string
		wantName    string
		wantUp      bool
		wantOk      bool
	}{
		{"20260215_100000_create_devices.up.sql", "20260215_100000", "create_devices", true, true},
		{"20260215_100000_create_devices.down.sql", "20260215_100000", "create_devices", false, true},
		{"20260301_090000_add_tfa.up.sql", "20260301_090000", "add_tfa", true, true},
		{"readme.txt", "", "", false, false},
		{"20260215_100000_no_direction.sql", "", "", false, false},
		{"invalid.up.sql", "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, up, ok := parseMigrationName(tt.filename)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion || name != tt.wantName || up != tt.wantUp {
				t.Errorf("parseMigrationName(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.filename, version, name, up, tt.wantVersion, tt.wantName, tt.wantUp)
			}
		})
	}
}
