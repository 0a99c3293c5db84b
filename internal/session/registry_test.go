package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/schema"
	"github.com/Lobco894/NotePad-new-master/internal/testutil"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	store := testutil.TestStore(t)
	reg := NewRegistry()

	s, err := OpenInsert(ctx, store, store.Resolver().Notes())
	if err != nil {
		t.Fatal(err)
	}
	id := reg.Add(s)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("id %q is not a uuid: %v", id, err)
	}

	got, err := reg.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}

	for _, bad := range []string{"not-a-uuid", uuid.NewString()} {
		if _, err := reg.Get(bad); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Get(%q) err = %v, want ErrNotFound", bad, err)
		}
	}

	if err := s.Cancel(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Get(id); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("closed session err = %v, want ErrNotFound", err)
	}
	if n := reg.Len(); n != 0 {
		t.Errorf("Len = %d after closed session lookup", n)
	}

	other, err := OpenInsert(ctx, store, store.Resolver().Notes())
	if err != nil {
		t.Fatal(err)
	}
	id = reg.Add(other)
	reg.Remove(id)
	if n := reg.Len(); n != 0 {
		t.Errorf("Len = %d after Remove", n)
	}
}

func TestRegistryNotify(t *testing.T) {
	ctx := context.Background()
	store := testutil.TestStore(t)
	reg := NewRegistry()
	var changes []Change
	reg.Notify(func(c Change) { changes = append(changes, c) })

	s, err := OpenInsert(ctx, store, store.Resolver().Notes())
	if err != nil {
		t.Fatal(err)
	}
	id := reg.Add(s)
	reg.Remove(id)
	reg.Remove(id) // unknown ids are silent

	want := []Change{
		{ID: id, URI: s.URI().String(), Open: true},
		{ID: id, URI: s.URI().String()},
	}
	if len(changes) != len(want) {
		t.Fatalf("changes = %+v, want %+v", changes, want)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d = %+v, want %+v", i, changes[i], want[i])
		}
	}
}

func TestRegistryExpire(t *testing.T) {
	ctx := context.Background()
	store := testutil.TestStore(t)
	notes := store.Resolver().Notes()
	reg := NewRegistry()
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return clock }

	abandoned, err := OpenInsert(ctx, store, notes)
	if err != nil {
		t.Fatal(err)
	}
	draft, err := OpenInsert(ctx, store, notes)
	if err != nil {
		t.Fatal(err)
	}
	if err := draft.SetBody("unsaved draft"); err != nil {
		t.Fatal(err)
	}
	active, err := OpenInsert(ctx, store, notes)
	if err != nil {
		t.Fatal(err)
	}
	reg.Add(abandoned)
	reg.Add(draft)
	activeID := reg.Add(active)

	clock = clock.Add(20 * time.Minute)
	if _, err := reg.Get(activeID); err != nil {
		t.Fatal(err)
	}

	clock = clock.Add(15 * time.Minute)
	if n := reg.Expire(ctx, 30*time.Minute); n != 2 {
		t.Fatalf("Expire dropped %d sessions, want 2", n)
	}
	if n := reg.Len(); n != 1 {
		t.Errorf("Len = %d, want the recently used session only", n)
	}
	if !abandoned.Closed() || !draft.Closed() || active.Closed() {
		t.Errorf("closed: abandoned=%v draft=%v active=%v", abandoned.Closed(), draft.Closed(), active.Closed())
	}

	if _, ok := noteRow(t, store, abandoned.URI()); ok {
		t.Error("abandoned empty insert left a row behind")
	}
	row, ok := noteRow(t, store, draft.URI())
	if !ok || row.Text(schema.NoteBody) != "unsaved draft" {
		t.Errorf("expired draft row = %v, %v; want its body saved", row, ok)
	}

	if _, err := reg.Get(activeID); err != nil {
		t.Errorf("active session lost: %v", err)
	}
}
