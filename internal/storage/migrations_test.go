package storage

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrate_CreatesSchema(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion() error = %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("SchemaVersion() = %d, want %d", version, ExpectedSchemaVersion)
	}

	for _, table := range []string{"sessions", "checkout_profiles"} {
		var count int
		err := store.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count)
		if err != nil {
			t.Fatalf("failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s was not created", table)
		}
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrate_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "toko.db")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStorage() error = %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if _, err := store.db.ExecContext(ctx, `INSERT INTO sessions (base_url, token) VALUES (?, ?)`, testBaseURL, "tok"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	_ = store.Close()

	reopened, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if err := reopened.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() after reopen error = %v", err)
	}

	got, err := reopened.GetSession(ctx, testBaseURL)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.Token != "tok" {
		t.Errorf("Token = %q, want %q", got.Token, "tok")
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx, "PRAGMA user_version = 99"); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}

	err := store.Migrate(ctx)
	if err == nil || !strings.Contains(err.Error(), "newer than this build supports") {
		t.Errorf("Migrate() error = %v, want newer-schema error", err)
	}
}

func TestMigrations_AreSequential(t *testing.T) {
	for i, m := range migrations {
		if m.Version != i+1 {
			t.Errorf("migration at index %d has version %d", i, m.Version)
		}
		if m.Description == "" {
			t.Errorf("migration %d has no description", m.Version)
		}
	}
	if last := migrations[len(migrations)-1].Version; last != ExpectedSchemaVersion {
		t.Errorf("last migration %d != ExpectedSchemaVersion %d", last, ExpectedSchemaVersion)
	}
}
