// Package testutil provides test utilities for toko: throwaway SQLite
// databases seeded with sessions and checkout profiles, and catalog fixtures
// in the books subpackage.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/toko/internal/model"
	"github.com/Veraticus/toko/internal/service"
	"github.com/Veraticus/toko/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
	Path    string
}

// SetupTestDB creates a migrated database in a temporary directory. It is
// closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, service.Storage) error
	Profiles       map[string]*model.CheckoutProfile
	Sessions       []*service.SessionRecord
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
//
// Example:
//
//	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
//		Sessions: []*service.SessionRecord{{BaseURL: url, Token: "tok", CreatedAt: now}},
//	})
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "toko.db")
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	ctx := context.Background()

	// Run migrations unless skipped
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	for _, record := range opts.Sessions {
		if err := store.SaveSession(ctx, record); err != nil {
			t.Fatalf("failed to seed session for %s: %v", record.BaseURL, err)
		}
	}
	for baseURL, profile := range opts.Profiles {
		if err := store.SaveCheckoutProfile(ctx, baseURL, profile); err != nil {
			t.Fatalf("failed to seed checkout profile for %s: %v", baseURL, err)
		}
	}

	// Run custom setup
	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{Storage: store, Path: path, t: t}
}

// MustSession returns the saved session for baseURL or fails the test.
func (db *TestDB) MustSession(baseURL string) *service.SessionRecord {
	db.t.Helper()
	record, err := db.Storage.GetSession(context.Background(), baseURL)
	if err != nil {
		db.t.Fatalf("session for %s not found: %v", baseURL, err)
	}
	return record
}
