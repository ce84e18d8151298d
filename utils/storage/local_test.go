package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoredNameIsUniqueAndKeepsExtension(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	a := store.StoredName("Informe Final.PDF")
	b := store.StoredName("Informe Final.PDF")

	if a == b {
		t.Error("stored names must be unique per call")
	}
	if !strings.HasSuffix(a, ".pdf") {
		t.Errorf("expected lowercased extension, got %s", a)
	}
	if strings.Contains(a, " ") {
		t.Errorf("stored name should not carry the original name: %s", a)
	}
}

func TestPathForRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	p := store.PathFor("../../etc/passwd")
	if filepath.Dir(p) != filepath.Clean(dir) {
		t.Errorf("path escaped the storage dir: %s", p)
	}
}

func TestExistsAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	name := store.StoredName("nota.txt")
	if store.Exists(name) {
		t.Fatal("file should not exist yet")
	}

	if err := os.WriteFile(store.PathFor(name), []byte("hola"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if !store.Exists(name) {
		t.Error("file should exist after write")
	}

	if err := store.Remove(name); err != nil {
		t.Errorf("Remove: %v", err)
	}
	if store.Exists(name) {
		t.Error("file should be gone after Remove")
	}

	// removing a missing file is not an error
	if err := store.Remove(name); err != nil {
		t.Errorf("Remove of missing file: %v", err)
	}
}
