package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "sqlite:\n  path: " + filepath.Join(dir, "notes.db") + "\n" +
		"documents:\n  path: " + filepath.Join(dir, "documents") + "\n"
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI runs one command line against a fresh app and returns its stdout.
func runCLI(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	return runCLIWithInput(t, strings.NewReader(""), config, args...)
}

func runCLIWithInput(t *testing.T, in io.Reader, config string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Reader = in
	app.Writer = &out
	err := app.Run(context.Background(), append([]string{"notepad", "--config", config}, args...))
	return out.String(), err
}

func TestCLI_NoteLifecycle(t *testing.T) {
	config := writeConfig(t)

	out, err := runCLI(t, config, "new", "Buy", "milk")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(out, "content://com.google.provider.NotePad/notes/1\tBuy milk") {
		t.Errorf("new output = %q", out)
	}

	out, err = runCLI(t, config, "list")
	if err != nil || !strings.Contains(out, "Buy milk") {
		t.Fatalf("list = %q, %v", out, err)
	}

	if _, err := runCLI(t, config, "edit", "--title", "Groceries", "1", "Buy milk and eggs"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	out, err = runCLI(t, config, "show", "1")
	if err != nil || !strings.Contains(out, `"title": "Groceries"`) || !strings.Contains(out, "milk and eggs") {
		t.Fatalf("show = %q, %v", out, err)
	}

	out, err = runCLI(t, config, "search", "groc")
	if err != nil || !strings.Contains(out, "Groceries") {
		t.Errorf("search = %q, %v", out, err)
	}
	out, err = runCLI(t, config, "search", "--text", "eggs")
	if err != nil || !strings.Contains(out, "Groceries") {
		t.Errorf("search --text = %q, %v", out, err)
	}

	if _, err := runCLI(t, config, "edit", "1", ""); err != nil {
		t.Fatalf("edit to empty: %v", err)
	}
	if _, err := runCLI(t, config, "show", "1"); err == nil {
		t.Error("note emptied by edit should be deleted")
	}
}

func TestCLI_EmptyNewIsDiscarded(t *testing.T) {
	config := writeConfig(t)

	out, err := runCLI(t, config, "new")
	if err != nil || !strings.Contains(out, "discarded") {
		t.Fatalf("new = %q, %v", out, err)
	}
	out, _ = runCLI(t, config, "list")
	if strings.Count(out, "\n") != 1 {
		t.Errorf("list should only have a header, got %q", out)
	}
}

func TestCLI_Categories(t *testing.T) {
	config := writeConfig(t)

	if _, err := runCLI(t, config, "new", "standup"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, config, "category", "create", "--color", "#00FF00", "Work"); err != nil {
		t.Fatalf("category create: %v", err)
	}
	if _, err := runCLI(t, config, "category", "create", "Work"); err == nil {
		t.Error("duplicate category should fail")
	}
	if _, err := runCLI(t, config, "assign", "1", "Work"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	out, err := runCLI(t, config, "category", "list", "w*")
	if err != nil {
		t.Fatal(err)
	}
	fields := strings.Fields(strings.Split(strings.TrimSpace(out), "\n")[1])
	if len(fields) != 4 || fields[1] != "Work" || fields[2] != "#00FF00" || fields[3] != "1" {
		t.Errorf("category list = %q", out)
	}

	out, err = runCLI(t, config, "type", "content://com.google.provider.NotePad/categories")
	if err != nil || strings.TrimSpace(out) != "vnd.android.cursor.dir/vnd.google.category" {
		t.Errorf("type = %q, %v", out, err)
	}
}

func TestCLI_ExportImport(t *testing.T) {
	config := writeConfig(t)
	docs := filepath.Join(filepath.Dir(config), "documents")

	if _, err := runCLI(t, config, "new", "exported", "text"); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, config, "export", "1", "out/one.txt"); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(docs, "out", "one.txt"))
	if err != nil || string(data) != "exported text" {
		t.Fatalf("exported = %q, %v", data, err)
	}

	out, err := runCLI(t, config, "import", "--dir", "out")
	if err != nil || !strings.Contains(out, "exported text") {
		t.Fatalf("import = %q, %v", out, err)
	}
	out, _ = runCLI(t, config, "list")
	if strings.Count(out, "exported text") != 2 {
		t.Errorf("list after import = %q", out)
	}
}

func TestCLI_Stdin(t *testing.T) {
	config := writeConfig(t)

	out, err := runCLIWithInput(t, strings.NewReader("from a pipe\n"), config, "new", "-")
	if err != nil || !strings.Contains(out, "\tfrom a pipe") {
		t.Fatalf("new - = %q, %v", out, err)
	}

	broken := errors.New("broken pipe")
	for _, args := range [][]string{
		{"search", "-"},
		{"new", "-"},
		{"assign", "1", "-"},
		{"category", "create", "-"},
		{"category", "rename", "1", "-"},
	} {
		_, err := runCLIWithInput(t, iotest.ErrReader(broken), config, args...)
		if !errors.Is(err, broken) {
			t.Errorf("%v: err = %v, want the read error", args, err)
		}
	}
}
