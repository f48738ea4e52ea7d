// Package testutil holds helpers shared by tests that need a real database.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/codr1/folio/internal/db"
)

// NewTestDB opens a migrated SQLite database in t's temp dir and closes it
// when the test ends.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "folio-test.db"))
	if err != nil {
		t.Fatalf("create test db: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

// NewTestStorage is NewTestDB wrapped as theme storage.
func NewTestStorage(t *testing.T) *db.Storage {
	t.Helper()
	return db.NewStorage(NewTestDB(t))
}
