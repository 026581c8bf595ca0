package sqlitedb

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	db, err := Open(dir, "test.db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestOpen_OpenFailure(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }

	if _, err := Open(t.TempDir(), "x.db"); err == nil {
		t.Fatal("expected error")
	}
}

func TestMigrate_StopsOnFailure(t *testing.T) {
	db, err := Open(t.TempDir(), "m.db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	err = Migrate(db,
		"CREATE TABLE a (id TEXT)",
		"NOT SQL",
		"CREATE TABLE b (id TEXT)",
	)
	if err == nil {
		t.Fatal("expected migration error")
	}
	var n int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE name = 'b'").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Error("statements after a failure must not run")
	}
}
