package storage

import (
	"context"
	"path/filepath"
	"testing"

	"finanzas/internal/core"
)

// newTestStore opens a migrated store on a throwaway database file.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "finances.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustSaveTransaction(t *testing.T, store *Store, tx core.Transaction) int64 {
	t.Helper()
	id, err := store.SaveTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("save transaction %q: %v", tx.Description, err)
	}
	return id
}

func countRows(t *testing.T, store *Store, table string) int {
	t.Helper()
	var n int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestOpenRunsMigrations(t *testing.T) {
	store := newTestStore(t)

	// The seed migration installs the default categories and settings.
	categories, err := store.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 8 {
		t.Fatalf("expected 8 seeded categories, got %d", len(categories))
	}

	settings, err := store.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if settings["currency"] != "MXN" {
		t.Fatalf("seeded currency: got %q", settings["currency"])
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finances.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	store.Close()

	// Reopening an already-migrated database must not fail or reseed.
	store, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer store.Close()

	if n := countRows(t, store, "categories"); n != 8 {
		t.Fatalf("expected 8 categories after reopen, got %d", n)
	}
}

func TestPing(t *testing.T) {
	store := newTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
