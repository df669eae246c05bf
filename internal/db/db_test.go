package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrateIdempotent(t *testing.T) {
	database := NewTestDB(t)

	// Running migrations again on an already-migrated database must be a
	// no-op, not an error.
	if err := Migrate(database); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var n int
	err := database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'products'`,
	).Scan(&n)
	if err != nil {
		t.Fatalf("checking schema: %v", err)
	}
	if n != 1 {
		t.Error("expected products table to exist")
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	database := NewTestDB(t)

	_, err := database.Exec(
		`INSERT INTO subcategories (category_id, name) VALUES (9999, 'orphan')`,
	)
	if err == nil {
		t.Error("expected foreign key violation for missing category")
	}
}

func TestPragmasOnEveryConnection(t *testing.T) {
	// A file-backed database so the pool can hand out distinct connections.
	database, err := Open(filepath.Join(t.TempDir(), "test.sqlite3"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	if err := Migrate(database); err != nil {
		t.Fatalf("migrating database: %v", err)
	}

	// Hold several connections open at once so each check runs on a
	// different one.
	ctx := context.Background()
	var conns []*sql.Conn
	for i := 0; i < 3; i++ {
		conn, err := database.Conn(ctx)
		if err != nil {
			t.Fatalf("getting connection %d: %v", i, err)
		}
		defer conn.Close()
		conns = append(conns, conn)
	}

	for i, conn := range conns {
		var fk int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
			t.Fatalf("connection %d: reading foreign_keys: %v", i, err)
		}
		if fk != 1 {
			t.Errorf("connection %d: foreign_keys = %d, want 1", i, fk)
		}

		var timeout int
		if err := conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("connection %d: reading busy_timeout: %v", i, err)
		}
		if timeout != 5000 {
			t.Errorf("connection %d: busy_timeout = %d, want 5000", i, timeout)
		}

		_, err := conn.ExecContext(ctx,
			`INSERT INTO subcategories (category_id, name) VALUES (9999, 'orphan')`)
		if err == nil {
			t.Errorf("connection %d: orphan insert succeeded", i)
		}
	}
}
