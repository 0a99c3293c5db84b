package noteservice

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/checksum"
	"github.com/Lobco894/NotePad-new-master/internal/storage"
	"github.com/Lobco894/NotePad-new-master/internal/testutil"
)

func ptr(s string) *string { return &s }

func newService(t *testing.T) (*Service, *storage.FS) {
	t.Helper()
	_, docs := testutil.TestDocuments(t)
	return NewService(testutil.TestStore(t), docs), docs
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func wantErr(t *testing.T, what string, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("%s: err = %v, want %v", what, err, target)
	}
}

func TestCreateGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	n, err := svc.CreateNote(ctx, NoteInput{Body: ptr("Buy milk and bread")})
	must(t, err)
	if n.Title != "Buy milk and bread" {
		t.Errorf("derived title = %q", n.Title)
	}
	if n.Checksum != checksum.Sum([]byte("Buy milk and bread")) {
		t.Errorf("checksum = %q", n.Checksum)
	}

	got, err := svc.GetNote(ctx, n.ID)
	must(t, err)
	if got.Body != n.Body || got.URI != n.URI {
		t.Errorf("GetNote = %+v, want %+v", got, n)
	}

	_, err = svc.UpdateNote(ctx, n.ID, NoteInput{Body: ptr("x")}, `"stale"`)
	wantErr(t, "stale If-Match", err, apperr.ErrConflict)

	updated, err := svc.UpdateNote(ctx, n.ID, NoteInput{Body: ptr("Buy milk")}, checksum.ETag(n.Checksum))
	must(t, err)
	if updated.Body != "Buy milk" {
		t.Errorf("body = %q", updated.Body)
	}
	if updated.Title != "Buy milk and bread" {
		t.Errorf("update changed the title to %q", updated.Title)
	}
	if updated.UpdatedAt.Before(n.UpdatedAt) {
		t.Errorf("modified went backwards: %v < %v", updated.UpdatedAt, n.UpdatedAt)
	}

	must(t, svc.DeleteNote(ctx, n.ID))
	wantErr(t, "second delete", svc.DeleteNote(ctx, n.ID), apperr.ErrNotFound)
	_, err = svc.GetNote(ctx, n.ID)
	wantErr(t, "get deleted", err, apperr.ErrNotFound)
	_, err = svc.GetNote(ctx, 0)
	wantErr(t, "get id 0", err, apperr.ErrNotFound)
}

func TestSearchAndList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)
	for _, title := range []string{"Buy milk", "Call bank"} {
		_, err := svc.CreateNote(ctx, NoteInput{Title: ptr(title), Body: ptr(title)})
		must(t, err)
	}

	found, err := svc.Search(ctx, "mil", 0)
	must(t, err)
	if len(found) != 1 || found[0].Title != "Buy milk" {
		t.Errorf("Search = %+v", found)
	}

	hits, err := svc.SearchText(ctx, "bank", 0)
	must(t, err)
	if len(hits) != 1 || hits[0].Title != "Call bank" || hits[0].URI == "" {
		t.Errorf("SearchText = %+v", hits)
	}
	hits, err = svc.SearchText(ctx, "  ", 0)
	must(t, err)
	if len(hits) != 0 {
		t.Errorf("blank SearchText = %+v", hits)
	}

	all, err := svc.ListNotes(ctx, ListOptions{Sort: "title asc"})
	must(t, err)
	if len(all) != 2 || all[0].Title != "Buy milk" {
		t.Errorf("ListNotes(title asc) = %+v", all)
	}

	_, err = svc.ListNotes(ctx, ListOptions{Sort: "bogus"})
	wantErr(t, "bad sort", err, apperr.ErrInvalidColumn)

	limited, err := svc.ListNotes(ctx, ListOptions{Limit: 1})
	must(t, err)
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d", len(limited))
	}
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	work, err := svc.CreateCategory(ctx, "  Work  ", "")
	must(t, err)
	if work.Name != "Work" || work.Color != "#FFFFFF" || work.Count != 0 {
		t.Errorf("created = %+v", work)
	}

	_, err = svc.CreateCategory(ctx, "Work", "#000000")
	wantErr(t, "duplicate", err, apperr.ErrAlreadyExists)

	_, err = svc.CreateCategory(ctx, "Home", "#00FF00")
	must(t, err)
	_, err = svc.CreateCategory(ctx, "Homework", "")
	must(t, err)

	names := func(filter string) []string {
		cats, err := svc.ListCategories(ctx, filter)
		must(t, err)
		var out []string
		for _, c := range cats {
			out = append(out, c.Name)
		}
		return out
	}
	filters := []struct {
		filter string
		want   []string
	}{
		{"", []string{"Home", "Homework", "Work"}},
		{"home*", []string{"Home", "Homework"}},
		{"work", []string{"Homework", "Work"}},
		{"h?me", []string{"Home"}},
	}
	for _, tc := range filters {
		if got := names(tc.filter); !slices.Equal(got, tc.want) {
			t.Errorf("ListCategories(%q) = %v, want %v", tc.filter, got, tc.want)
		}
	}

	_, err = svc.ListCategories(ctx, "[")
	wantErr(t, "bad glob", err, apperr.ErrInvalidArgument)

	n, err := svc.CreateNote(ctx, NoteInput{Body: ptr("report"), Category: ptr("Work")})
	must(t, err)
	if n.Category != "Work" {
		t.Errorf("category = %q", n.Category)
	}

	work, err = svc.GetCategory(ctx, work.ID)
	must(t, err)
	if work.Count != 1 {
		t.Errorf("count = %d, want 1", work.Count)
	}

	renamed, err := svc.UpdateCategory(ctx, work.ID, "Office", "")
	must(t, err)
	if renamed.Name != "Office" {
		t.Errorf("renamed = %+v", renamed)
	}
	n, err = svc.GetNote(ctx, n.ID)
	must(t, err)
	if n.Category != "Office" {
		t.Errorf("note category after rename = %q", n.Category)
	}

	n, err = svc.AssignCategory(ctx, n.ID, "")
	must(t, err)
	if n.Category != "" {
		t.Errorf("cleared category = %q", n.Category)
	}
	office, err := svc.CategoryByName(ctx, "Office")
	must(t, err)
	if office.Count != 0 {
		t.Errorf("count after clear = %d", office.Count)
	}

	_, err = svc.AssignCategory(ctx, n.ID, "Nowhere")
	wantErr(t, "assign unknown", err, apperr.ErrNotFound)

	must(t, svc.DeleteCategory(ctx, office.ID))
	wantErr(t, "second category delete", svc.DeleteCategory(ctx, office.ID), apperr.ErrNotFound)
}

func TestImportAndExport(t *testing.T) {
	ctx := context.Background()
	svc, docs := newService(t)

	must(t, docs.WriteText("inbox/groceries.md", "---\ntitle: Groceries\ncategory: Home\n---\neggs\n"))
	must(t, docs.WriteText("inbox/plain.txt", "Call the bank tomorrow morning please"))
	must(t, docs.WriteText("inbox/heading.md", "# Weekly plan\nmonday: gym\n"))

	imported, err := svc.ImportAll(ctx, "inbox")
	must(t, err)
	if len(imported) != 3 {
		t.Fatalf("imported %d notes, want 3", len(imported))
	}

	byTitle := map[string]string{}
	for _, n := range imported {
		byTitle[n.Title] = n.Category
	}
	for _, title := range []string{"Groceries", "Call the bank tomorrow", "Weekly plan"} {
		if _, ok := byTitle[title]; !ok {
			t.Errorf("no imported note titled %q in %v", title, byTitle)
		}
	}
	if byTitle["Groceries"] != "Home" {
		t.Errorf("frontmatter category = %q", byTitle["Groceries"])
	}

	home, err := svc.CategoryByName(ctx, "Home")
	must(t, err)
	if home.Count != 1 {
		t.Errorf("Home count = %d", home.Count)
	}

	_, err = svc.Import(ctx, "inbox/missing.md")
	wantErr(t, "import missing", err, apperr.ErrNotFound)

	n := imported[0]
	must(t, svc.Export(ctx, n.ID, "out/note.txt"))
	data, err := docs.Read("out/note.txt")
	must(t, err)
	if string(data) != n.Body {
		t.Errorf("exported %q, want %q", data, n.Body)
	}

	after, err := svc.GetNote(ctx, n.ID)
	must(t, err)
	if !after.UpdatedAt.Equal(n.UpdatedAt) {
		t.Errorf("export touched the note: %v -> %v", n.UpdatedAt, after.UpdatedAt)
	}

	wantErr(t, "export empty dest", svc.Export(ctx, n.ID, ""), apperr.ErrConstraintViolation)
}

func TestWithoutDocuments(t *testing.T) {
	svc := NewService(testutil.TestStore(t), nil)
	_, err := svc.Import(context.Background(), "a.md")
	wantErr(t, "import", err, apperr.ErrInvalidArgument)
	_, err = svc.Documents("")
	wantErr(t, "documents", err, apperr.ErrInvalidArgument)
}
