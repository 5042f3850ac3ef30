// Package testutil provides test fixtures shared across packages.
package testutil

import (
	"context"
	"testing"

	"github.com/kitesail/pennybook/internal/model"
	"github.com/kitesail/pennybook/internal/storage"
)

// TestLedgerID is the ledger used by storage-backed tests.
const TestLedgerID = "test-ledger"

// SetupTestDB creates a migrated in-memory database seeded with the given
// category entries. Cleanup is registered on t.
func SetupTestDB(t *testing.T, entries []model.CategoryEntry) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, entry := range entries {
		if entry.LedgerID == "" {
			entry.LedgerID = TestLedgerID
		}
		if err := store.CreateCategory(ctx, entry); err != nil {
			t.Fatalf("failed to seed category %s: %v", entry.Code, err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// BasicCategories returns a small dictionary exercising income and expense
// codes, synonyms included.
func BasicCategories() []model.CategoryEntry {
	return []model.CategoryEntry{
		{Code: model.CategoryCode{Major: "301", Sub: "01"}, MajorName: "Food", SubName: "lunch", Synonyms: []string{"meal"}},
		{Code: model.CategoryCode{Major: "301", Sub: "02"}, MajorName: "Food", SubName: "dinner", Synonyms: nil},
		{Code: model.CategoryCode{Major: "402", Sub: "02"}, MajorName: "Transport", SubName: "taxi", Synonyms: []string{"taxi fare", "cab"}},
		{Code: model.CategoryCode{Major: "801", Sub: "01"}, MajorName: "Income", SubName: "salary", Synonyms: []string{"paycheck"}},
	}
}
