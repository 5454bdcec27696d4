package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(root)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	ctx := context.Background()
	path, err := store.Save(ctx, "doc.pdf", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(root, "doc.pdf") {
		t.Errorf("Save path = %q", path)
	}
	if path != store.Path("doc.pdf") {
		t.Errorf("Path mismatch: %q vs %q", path, store.Path("doc.pdf"))
	}

	f, err := store.Open(ctx, "doc.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(f)
	f.Close()
	if string(data) != "hello" {
		t.Errorf("read back %q, want %q", data, "hello")
	}

	if err := store.Remove(ctx, "doc.pdf"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Remove")
	}

	// Removing a missing file is not an error.
	if err := store.Remove(ctx, "doc.pdf"); err != nil {
		t.Errorf("Remove missing file: %v", err)
	}
}

func TestLocalStoreRejectsPathLikeNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	ctx := context.Background()
	for _, name := range []string{"", "../escape.txt", "a/b.txt"} {
		if _, err := store.Save(ctx, name, strings.NewReader("x")); err == nil {
			t.Errorf("Save(%q) accepted a path-like name", name)
		}
		if _, err := store.Open(ctx, name); err == nil {
			t.Errorf("Open(%q) accepted a path-like name", name)
		}
	}
}
