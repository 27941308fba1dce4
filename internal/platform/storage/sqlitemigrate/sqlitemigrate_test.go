package sqlitemigrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrate.db")
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestApplyRunsMigrationsOnce(t *testing.T) {
	sqlDB := openDB(t)
	migrations := fstest.MapFS{
		"001_items.sql": &fstest.MapFile{
			Data: []byte("CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL);"),
		},
		"002_seed.sql": &fstest.MapFile{
			Data: []byte("INSERT INTO items (name) VALUES ('first');"),
		},
	}

	if err := Apply(context.Background(), sqlDB, migrations, "."); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	// Re-applying must be a no-op, not a duplicate insert.
	if err := Apply(context.Background(), sqlDB, migrations, "."); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	var count int
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM items").Scan(&count); err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 seeded item, got %d", count)
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	sqlDB := openDB(t)
	migrations := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{
			Data: []byte("CREATE TABLE broken (id INTEGER PRIMARY KEY; -- malformed"),
		},
	}

	if err := Apply(context.Background(), sqlDB, migrations, "."); err == nil {
		t.Fatal("expected malformed migration to fail")
	}

	var count int
	if err := sqlDB.QueryRow(
		"SELECT COUNT(*) FROM schema_migrations WHERE name = '001_bad.sql'",
	).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 0 {
		t.Fatal("expected failed migration to be unrecorded")
	}
}
