package schema

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", ""},
		{"short", "Buy milk", "Buy milk"},
		{"exactly 30", strings.Repeat("a", 30), strings.Repeat("a", 30)},
		{"backs off to space", "The quick brown fox jumps over the lazy dog", "The quick brown fox jumps"},
		{"no space keeps prefix", strings.Repeat("x", 45), strings.Repeat("x", 30)},
		{"leading space only", " " + strings.Repeat("y", 40), " " + strings.Repeat("y", 29)},
		{"multibyte", strings.Repeat("笔", 35), strings.Repeat("笔", 30)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveTitle(tc.body)
			if got != tc.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tc.body, got, tc.want)
			}
			if n := len([]rune(got)); n > TitleMaxLen {
				t.Errorf("title has %d characters", n)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	notes := Lookup(Notes)
	if notes == nil || notes.DefaultSort != NoteModified || !notes.DefaultSortDesc {
		t.Fatalf("notes def = %+v", notes)
	}
	cats := Lookup(Categories)
	if cats == nil || cats.DefaultSort != CategoryName || cats.DefaultSortDesc {
		t.Fatalf("categories def = %+v", cats)
	}
	if Lookup("bogus") != nil {
		t.Error("unknown table should not resolve")
	}
	if !cats.HasColumn(CategoryCount) || cats.HasColumn(NoteBody) {
		t.Error("column membership wrong")
	}
	if got := strings.Join(notes.ColumnNames(), ","); got != "_id,title,note,created,modified,category" {
		t.Errorf("column names = %s", got)
	}
}
