package provider

import (
	"context"
	"testing"

	"github.com/Lobco894/NotePad-new-master/internal/schema"
)

func matchIDs(t *testing.T, s *Store, query string) []int64 {
	t.Helper()
	matches, err := s.SearchText(context.Background(), query, 0)
	if err != nil {
		t.Fatalf("SearchText(%q): %v", query, err)
	}
	ids := make([]int64, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestSearchText(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	notes := s.Resolver().Notes()
	milk := mustInsert(t, s, notes, Values{schema.NoteTitle: "Buy milk", schema.NoteBody: "remember the oat milk"})
	bank := mustInsert(t, s, notes, Values{schema.NoteTitle: "Call bank", schema.NoteBody: "ask about the Mortgage"})

	tests := []struct {
		query string
		want  []int64
	}{
		{"oat", []int64{milk.ID}},
		{"mortgage", []int64{bank.ID}},
		{"milk oat", []int64{milk.ID}},
		{"milk bank", nil},
		{"bank", []int64{bank.ID}},
	}
	for _, tt := range tests {
		got := matchIDs(t, s, tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("SearchText(%q) = %v, want %v", tt.query, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SearchText(%q) = %v, want %v", tt.query, got, tt.want)
			}
		}
	}

	milkRu := mustInsert(t, s, notes, Values{schema.NoteTitle: "Купить", schema.NoteBody: "МОЛОКО и хлеб"})
	if got := matchIDs(t, s, "молоко"); len(got) != 1 || got[0] != milkRu.ID {
		t.Errorf("SearchText(молоко) = %v, want [%d]", got, milkRu.ID)
	}

	// Query syntax in user input must not reach the engine.
	matchIDs(t, s, `"oat AND (NEAR`)

	if got := matchIDs(t, s, "   "); len(got) != 0 {
		t.Errorf("blank query = %v", got)
	}

	if _, err := s.Update(ctx, milk, Values{schema.NoteBody: "almond instead"}, Predicate{}); err != nil {
		t.Fatal(err)
	}
	if got := matchIDs(t, s, "oat"); len(got) != 0 {
		t.Errorf("stale body still matches: %v", got)
	}
	if got := matchIDs(t, s, "almond"); len(got) != 1 {
		t.Errorf("updated body not found: %v", got)
	}

	if _, err := s.Delete(ctx, bank, Predicate{}); err != nil {
		t.Fatal(err)
	}
	if got := matchIDs(t, s, "mortgage"); len(got) != 0 {
		t.Errorf("deleted note still matches: %v", got)
	}
}
