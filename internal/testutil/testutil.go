// Package testutil provides shared test helpers for setting up stores and document directories.
package testutil

import (
	"os"
	"testing"

	"github.com/Lobco894/NotePad-new-master/internal/provider"
	"github.com/Lobco894/NotePad-new-master/internal/storage"
)

// TestStore creates a note store on a temporary SQLite file that is cleaned up with the test.
func TestStore(t *testing.T, opts ...provider.Option) *provider.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "notepad-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() {
		os.Remove(dbFile.Name())
		os.Remove(dbFile.Name() + "-wal")
		os.Remove(dbFile.Name() + "-shm")
	})

	store, err := provider.Open(dbFile.Name(), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestDocuments creates a temporary documents directory with a storage.FS.
func TestDocuments(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}
