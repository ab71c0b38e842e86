package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/strideapp/stride/migrations"
)

// setupTestMigrations builds an in-memory migrations filesystem from
// filename -> SQL pairs.
func setupTestMigrations(t *testing.T, files map[string]string) fs.FS {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func setupSQLiteTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewRunnerRejectsUnknownDriver(t *testing.T) {
	if _, err := NewRunner(nil, fstest.MapFS{}, Driver("mysql")); err == nil {
		t.Error("NewRunner() with unknown driver expected error, got nil")
	}
}

func TestApplyMigrationsFreshDatabase(t *testing.T) {
	db := setupSQLiteTestDB(t)
	fsys := setupTestMigrations(t, map[string]string{
		"001_init.sql":  "CREATE TABLE test_meetings (id TEXT PRIMARY KEY);",
		"002_walks.sql": "CREATE TABLE test_walks (id TEXT PRIMARY KEY);",
	})

	runner, err := NewRunner(db, fsys, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if applied != 2 {
		t.Errorf("ApplyMigrations() applied = %d, want 2", applied)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() error = %v", err)
	}
	if version != 2 {
		t.Errorf("GetCurrentVersion() = %d, want 2", version)
	}

	for _, table := range []string{"test_meetings", "test_walks"} {
		var count int
		row := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table)
		if err := row.Scan(&count); err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s not created", table)
		}
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := setupSQLiteTestDB(t)
	fsys := setupTestMigrations(t, map[string]string{
		"001_init.sql": "CREATE TABLE test_meetings (id TEXT PRIMARY KEY);",
	})

	runner, err := NewRunner(db, fsys, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("first ApplyMigrations() error = %v", err)
	}

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("second ApplyMigrations() applied = %d, want 0", applied)
	}
}

func TestApplyMigrationsPicksUpNewFiles(t *testing.T) {
	db := setupSQLiteTestDB(t)

	first, err := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_init.sql": "CREATE TABLE test_meetings (id TEXT PRIMARY KEY);",
	}), DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	if _, err := first.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}

	second, err := NewRunner(db, setupTestMigrations(t, map[string]string{
		"001_init.sql":  "CREATE TABLE test_meetings (id TEXT PRIMARY KEY);",
		"002_walks.sql": "CREATE TABLE test_walks (id TEXT PRIMARY KEY);",
	}), DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	applied, err := second.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if applied != 1 {
		t.Errorf("ApplyMigrations() applied = %d, want 1", applied)
	}
	if version, _ := second.GetCurrentVersion(); version != 2 {
		t.Errorf("GetCurrentVersion() = %d, want 2", version)
	}
}

func TestApplyMigrationsRejectsNewerDatabase(t *testing.T) {
	db := setupSQLiteTestDB(t)
	fsys := setupTestMigrations(t, map[string]string{
		"001_init.sql": "CREATE TABLE test_meetings (id TEXT PRIMARY KEY);",
	})

	runner, err := NewRunner(db, fsys, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	if err := runner.SetVersion(99); err != nil {
		t.Fatalf("SetVersion() error = %v", err)
	}

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("ApplyMigrations() on a newer database expected error, got nil")
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("ValidateVersion() on a newer database expected error, got nil")
	}
}

func TestApplyMigrationsRollsBackFailure(t *testing.T) {
	db := setupSQLiteTestDB(t)
	fsys := setupTestMigrations(t, map[string]string{
		"001_init.sql": "CREATE TABLE test_meetings (id TEXT PRIMARY KEY);",
		"002_bad.sql":  "THIS IS NOT SQL;",
	})

	runner, err := NewRunner(db, fsys, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("ApplyMigrations() with a broken migration expected error, got nil")
	}
	if applied != 1 {
		t.Errorf("ApplyMigrations() applied = %d before failing, want 1", applied)
	}

	// The version must reflect the last successful migration only.
	if version, _ := runner.GetCurrentVersion(); version != 1 {
		t.Errorf("GetCurrentVersion() after failure = %d, want 1", version)
	}
}

func TestReadMigrationFilesValidation(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "filename without version prefix",
			files:   map[string]string{"init.sql": "SELECT 1;"},
			wantErr: "invalid migration filename",
		},
		{
			name:    "non-numeric version",
			files:   map[string]string{"abc_init.sql": "SELECT 1;"},
			wantErr: "invalid version number",
		},
		{
			name:    "zero version",
			files:   map[string]string{"000_init.sql": "SELECT 1;"},
			wantErr: "must be at least 1",
		},
		{
			name: "duplicate versions",
			files: map[string]string{
				"001_first.sql":  "SELECT 1;",
				"001_second.sql": "SELECT 1;",
			},
			wantErr: "duplicate migration version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, err := NewRunner(nil, setupTestMigrations(t, tt.files), DriverSQLite)
			if err != nil {
				t.Fatalf("NewRunner() error = %v", err)
			}
			_, err = runner.ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadMigrationFiles() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadMigrationFilesSkipsNonSQL(t *testing.T) {
	fsys := setupTestMigrations(t, map[string]string{
		"001_init.sql": "SELECT 1;",
		"README.md":    "notes",
	})
	runner, err := NewRunner(nil, fsys, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	ms, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles() error = %v", err)
	}
	if len(ms) != 1 || ms[0].Name != "init" {
		t.Errorf("ReadMigrationFiles() = %v, want just 001_init", ms)
	}
}

func TestRebindPlaceholders(t *testing.T) {
	sqliteRunner, err := NewRunner(nil, fstest.MapFS{}, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	pgRunner, err := NewRunner(nil, fstest.MapFS{}, DriverPostgres)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	query := "INSERT INTO schema_version (version) VALUES (?)"
	if got := sqliteRunner.rebind(query); got != query {
		t.Errorf("sqlite rebind changed the query: %q", got)
	}
	if got, want := pgRunner.rebind(query), "INSERT INTO schema_version (version) VALUES ($1)"; got != want {
		t.Errorf("postgres rebind = %q, want %q", got, want)
	}
	if got, want := pgRunner.rebind("UPDATE t SET a = ?, b = ? WHERE c = ?"), "UPDATE t SET a = $1, b = $2 WHERE c = $3"; got != want {
		t.Errorf("postgres rebind = %q, want %q", got, want)
	}
}

// TestEmbeddedMigrations applies the real shipped SQLite schema to a fresh
// database, which catches SQL syntax errors before a release does.
func TestEmbeddedMigrations(t *testing.T) {
	db := setupSQLiteTestDB(t)
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub() error = %v", err)
	}

	runner, err := NewRunner(db, sub, DriverSQLite)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if applied < 1 {
		t.Errorf("ApplyMigrations() applied = %d, want at least 1", applied)
	}

	for _, table := range []string{"settings", "meetings", "daily_steps", "workouts", "plans", "activities", "app_state"} {
		var count int
		row := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table)
		if err := row.Scan(&count); err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("shipped schema is missing table %s", table)
		}
	}
}
