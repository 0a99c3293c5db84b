package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempDocuments(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteTextAndRead(t *testing.T) {
	s := tempDocuments(t)
	if err := s.WriteText("note.txt", "Buy milk\n"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	got, err := s.Read("note.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "Buy milk\n" {
		t.Errorf("content mismatch: got %q", got)
	}
	if err := s.WriteText("", "x"); err == nil {
		t.Error("expected error for empty destination")
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempDocuments(t)
	if err := s.Write("a/b/c.md", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("a/b/c.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestList(t *testing.T) {
	s := tempDocuments(t)
	_ = s.Write("a.md", []byte("a"))
	_ = s.Write("sub/b.txt", []byte("b"))
	_ = s.Write("image.png", []byte("not text"))
	_ = s.Write(".hidden/c.md", []byte("skip"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(items), items)
	}
	paths := map[string]bool{}
	for _, it := range items {
		paths[it.Path] = true
		if it.Checksum == "" {
			t.Errorf("%s: empty checksum", it.Path)
		}
	}
	if !paths["a.md"] || !paths["sub/b.txt"] {
		t.Errorf("paths = %v", paths)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempDocuments(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.WriteText(p, "x"); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
	if err := s.Write(".", []byte("x")); err == nil {
		t.Error("expected error writing the root itself")
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := tempDocuments(t)
	_ = s.Write("atomic.md", []byte("original content"))

	if err := s.Write("atomic.md", []byte("updated content")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != "updated content" {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.Root(), ".notepad-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "notepad-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}
