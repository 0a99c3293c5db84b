// Package noteservice is the application facade over the note store used by
// the HTTP API, the MCP server and the CLI.
package noteservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/checksum"
	"github.com/Lobco894/NotePad-new-master/internal/clipboard"
	"github.com/Lobco894/NotePad-new-master/internal/models"
	"github.com/Lobco894/NotePad-new-master/internal/provider"
	"github.com/Lobco894/NotePad-new-master/internal/schema"
	"github.com/Lobco894/NotePad-new-master/internal/session"
	"github.com/Lobco894/NotePad-new-master/internal/storage"
	"github.com/Lobco894/NotePad-new-master/internal/uri"
)

// NoteInput carries note fields for create and update. Nil fields are left
// alone on update and defaulted on create.
type NoteInput struct {
	Title    *string
	Body     *string
	Category *string
}

// ListOptions narrows ListNotes.
type ListOptions struct {
	Category string
	// Sort is "column [ASC|DESC]"; empty keeps the default newest-first order.
	Sort  string
	Limit int
}

// Service coordinates the note store and the documents directory.
type Service struct {
	store *provider.Store
	docs  storage.Provider
}

// NewService creates a new note service. docs may be nil, which disables
// import and export.
func NewService(store *provider.Store, docs storage.Provider) *Service {
	return &Service{store: store, docs: docs}
}

// Resolver returns the store's address resolver.
func (s *Service) Resolver() *uri.Resolver { return s.store.Resolver() }

// Store returns the underlying note store.
func (s *Service) Store() *provider.Store { return s.store }

// ListNotes returns notes, newest first unless opts.Sort says otherwise.
func (s *Service) ListNotes(ctx context.Context, opts ListOptions) ([]models.Note, error) {
	order, err := provider.ParseOrder(opts.Sort)
	if err != nil {
		return nil, err
	}
	q := provider.Query{Order: order, Limit: opts.Limit}
	if opts.Category != "" {
		q.Where = provider.Eq(schema.NoteCategory, opts.Category)
	}
	return s.queryNotes(ctx, q)
}

// Search returns notes whose title contains query, ignoring case.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.Note, error) {
	return s.queryNotes(ctx, provider.Query{Where: provider.Contains(schema.NoteTitle, query), Limit: limit})
}

// SearchText returns notes whose title or body contains every word of query,
// best match first.
func (s *Service) SearchText(ctx context.Context, query string, limit int) ([]models.TextHit, error) {
	matches, err := s.store.SearchText(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.TextHit, 0, len(matches))
	for _, m := range matches {
		n, err := s.GetNote(ctx, m.ID)
		if errors.Is(err, apperr.ErrNotFound) {
			// deleted between the search and the read
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, models.TextHit{Note: *n, Snippet: m.Snippet})
	}
	return out, nil
}

func (s *Service) queryNotes(ctx context.Context, q provider.Query) ([]models.Note, error) {
	c, err := s.store.Query(ctx, s.Resolver().Notes(), q)
	if err != nil {
		return nil, err
	}
	rows, err := c.All()
	if err != nil {
		return nil, err
	}
	out := make([]models.Note, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.note(r))
	}
	return out, nil
}

func (s *Service) note(r provider.Row) models.Note {
	addr, _ := s.Resolver().Note(r.Int64(schema.ID))
	return models.NoteFromRow(r, addr.String())
}

// GetNote returns the note with id.
func (s *Service) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	addr, err := s.Resolver().Note(id)
	if err != nil {
		return nil, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	c, err := s.store.Query(ctx, addr, provider.Query{})
	if err != nil {
		return nil, err
	}
	row, ok, err := c.First()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	n := models.NoteFromRow(row, addr.String())
	return &n, nil
}

// CreateNote inserts a note. A missing title is derived from the body.
func (s *Service) CreateNote(ctx context.Context, in NoteInput) (*models.Note, error) {
	item, err := s.store.Insert(ctx, s.Resolver().Notes(), in.values())
	if err != nil {
		return nil, err
	}
	return s.GetNote(ctx, item.ID)
}

// UpdateNote writes the fields set in in. A non-empty ifMatch must equal the
// current body checksum, otherwise ErrConflict is returned.
func (s *Service) UpdateNote(ctx context.Context, id int64, in NoteInput, ifMatch string) (*models.Note, error) {
	current, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	if ifMatch != "" && !checksum.MatchETag(ifMatch, current.Checksum) {
		return nil, fmt.Errorf("note %d: %w", id, apperr.ErrConflict)
	}
	addr, _ := s.Resolver().Note(id)
	if _, err := s.store.Update(ctx, addr, in.values(), provider.Predicate{}); err != nil {
		return nil, err
	}
	return s.GetNote(ctx, id)
}

// AssignCategory moves note id into category name; an empty name clears it.
func (s *Service) AssignCategory(ctx context.Context, id int64, name string) (*models.Note, error) {
	name = strings.TrimSpace(name)
	return s.UpdateNote(ctx, id, NoteInput{Category: &name}, "")
}

// DeleteNote removes note id. A note that does not exist yields ErrNotFound.
func (s *Service) DeleteNote(ctx context.Context, id int64) error {
	addr, err := s.Resolver().Note(id)
	if err != nil {
		return fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	n, err := s.store.Delete(ctx, addr, provider.Predicate{})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func (in NoteInput) values() provider.Values {
	v := provider.Values{}
	if in.Title != nil {
		v[schema.NoteTitle] = *in.Title
	}
	if in.Body != nil {
		v[schema.NoteBody] = *in.Body
	}
	if in.Category != nil {
		if *in.Category == "" {
			v[schema.NoteCategory] = nil
		} else {
			v[schema.NoteCategory] = *in.Category
		}
	}
	return v
}

// OpenEdit starts an edit session on note id.
func (s *Service) OpenEdit(ctx context.Context, id int64) (*session.Session, error) {
	addr, err := s.Resolver().Note(id)
	if err != nil {
		return nil, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	return session.OpenEdit(ctx, s.store, addr)
}

// OpenInsert starts a session on a new empty note.
func (s *Service) OpenInsert(ctx context.Context) (*session.Session, error) {
	return session.OpenInsert(ctx, s.store, s.Resolver().Notes())
}

// OpenPaste starts a session on a new note filled from src.
func (s *Service) OpenPaste(ctx context.Context, src clipboard.Source) (*session.Session, error) {
	return session.OpenPaste(ctx, s.store, s.Resolver().Notes(), src)
}

// Export writes the body of note id to dest in the documents directory.
func (s *Service) Export(ctx context.Context, id int64, dest string) error {
	docs, err := s.documents()
	if err != nil {
		return err
	}
	sess, err := s.OpenEdit(ctx, id)
	if err != nil {
		return err
	}
	// The session is dropped without closing: export never writes to the store.
	return sess.Export(ctx, docs, dest)
}

// ExportSession writes the in-memory body of an open session to dest.
func (s *Service) ExportSession(ctx context.Context, sess *session.Session, dest string) error {
	docs, err := s.documents()
	if err != nil {
		return err
	}
	return sess.Export(ctx, docs, dest)
}

func (s *Service) documents() (storage.Provider, error) {
	if s.docs == nil {
		return nil, fmt.Errorf("no documents directory configured: %w", apperr.ErrInvalidArgument)
	}
	return s.docs, nil
}
