// Package session manages the edit lifecycle of a single note: open for
// edit, insert or paste, then save, close, cancel, delete or export.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/clipboard"
	"github.com/Lobco894/NotePad-new-master/internal/provider"
	"github.com/Lobco894/NotePad-new-master/internal/schema"
	"github.com/Lobco894/NotePad-new-master/internal/storage"
	"github.com/Lobco894/NotePad-new-master/internal/uri"
)

// State is the editing mode of a session.
type State int

const (
	// StateEdit edits a note that existed before the session opened.
	StateEdit State = iota
	// StateInsert edits a row the session created itself.
	StateInsert
)

func (s State) String() string {
	if s == StateInsert {
		return "INSERT"
	}
	return "EDIT"
}

// Store is the subset of the note store a session drives.
type Store interface {
	Query(ctx context.Context, addr uri.Address, q provider.Query) (*provider.Cursor, error)
	Insert(ctx context.Context, addr uri.Address, values provider.Values) (uri.Address, error)
	Update(ctx context.Context, addr uri.Address, values provider.Values, where provider.Predicate) (int64, error)
	Delete(ctx context.Context, addr uri.Address, where provider.Predicate) (int64, error)
}

// Session is one open note. It is safe for concurrent use, but concurrent
// sessions on the same row are not coordinated: the last writer wins.
type Session struct {
	mu     sync.Mutex
	store  Store
	logger *slog.Logger

	addr     uri.Address
	state    State
	title    string
	body     string
	original string
	saved    string
	closed   bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func newSession(store Store, opts []Option) *Session {
	s := &Session{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenEdit loads the note at item and captures its body for revert.
func OpenEdit(ctx context.Context, store Store, item uri.Address, opts ...Option) (*Session, error) {
	if item.Kind != uri.NotesItem {
		return nil, fmt.Errorf("session: open edit %s: %w", item, apperr.ErrUnsupportedAddress)
	}
	title, body, err := loadNote(ctx, store, item)
	if err != nil {
		return nil, err
	}
	s := newSession(store, opts)
	s.addr = item
	s.state = StateEdit
	s.title, s.body = title, body
	s.original, s.saved = body, body
	s.logger.Debug("session: opened", slog.String("uri", item.String()), slog.String("state", s.state.String()))
	return s, nil
}

// OpenInsert creates an empty note in collection so the session has an
// address to save to. Any failure to create it is reported as ErrInsertFailed.
func OpenInsert(ctx context.Context, store Store, collection uri.Address, opts ...Option) (*Session, error) {
	item, err := insertEmpty(ctx, store, collection)
	if err != nil {
		return nil, err
	}
	s := newSession(store, opts)
	s.addr = item
	s.state = StateInsert
	s.logger.Debug("session: opened", slog.String("uri", item.String()), slog.String("state", s.state.String()))
	return s, nil
}

// OpenPaste creates a note from the first item of src. A note reference
// copies the referenced title and body; anything else is taken as plain
// text. The session then edits the new note as if it had existed.
func OpenPaste(ctx context.Context, store Store, collection uri.Address, src clipboard.Source, opts ...Option) (*Session, error) {
	item, err := insertEmpty(ctx, store, collection)
	if err != nil {
		return nil, err
	}
	s := newSession(store, opts)
	s.addr = item
	s.state = StateEdit

	if src != nil && src.HasItem() {
		clip, err := src.ReadItem()
		if err != nil && !errors.Is(err, clipboard.ErrEmpty) {
			s.discard(ctx)
			return nil, fmt.Errorf("session: read clipboard: %w", err)
		}
		if err == nil {
			title, body := s.coerce(ctx, clip)
			vals := provider.Values{schema.NoteBody: body}
			if title == "" {
				title = schema.DeriveTitle(body)
			}
			vals[schema.NoteTitle] = title
			if _, err := store.Update(ctx, item, vals, provider.Predicate{}); err != nil {
				s.discard(ctx)
				return nil, fmt.Errorf("session: paste into %s: %w", item, err)
			}
			s.title, s.body = title, body
		}
	}
	s.original, s.saved = s.body, s.body
	s.logger.Debug("session: opened", slog.String("uri", item.String()), slog.String("state", "PASTE"))
	return s, nil
}

// coerce resolves a clipboard item to a title and body. A reference to a
// note that no longer exists falls back to its textual form.
func (s *Session) coerce(ctx context.Context, clip clipboard.Item) (string, string) {
	if clip.Kind == clipboard.KindNoteReference && clip.Ref.Kind == uri.NotesItem {
		title, body, err := loadNote(ctx, s.store, clip.Ref)
		if err == nil {
			return title, body
		}
		s.logger.Debug("session: paste reference unreadable", slog.String("uri", clip.Payload), slog.String("error", err.Error()))
	}
	return "", clip.Payload
}

func (s *Session) discard(ctx context.Context) {
	if _, err := s.store.Delete(ctx, s.addr, provider.Predicate{}); err != nil {
		s.logger.Warn("session: discard failed", slog.String("uri", s.addr.String()), slog.String("error", err.Error()))
	}
}

func insertEmpty(ctx context.Context, store Store, collection uri.Address) (uri.Address, error) {
	if collection.Kind != uri.NotesCollection {
		return uri.Address{}, fmt.Errorf("session: open insert %s: %w", collection, apperr.ErrUnsupportedAddress)
	}
	item, err := store.Insert(ctx, collection, provider.Values{})
	if err != nil {
		if !errors.Is(err, apperr.ErrInsertFailed) {
			err = errors.Join(apperr.ErrInsertFailed, err)
		}
		return uri.Address{}, fmt.Errorf("session: open insert: %w", err)
	}
	return item, nil
}

func loadNote(ctx context.Context, store Store, item uri.Address) (string, string, error) {
	c, err := store.Query(ctx, item, provider.Query{Projection: []string{schema.NoteTitle, schema.NoteBody}})
	if err != nil {
		return "", "", fmt.Errorf("session: load %s: %w", item, err)
	}
	row, ok, err := c.First()
	if err != nil {
		return "", "", fmt.Errorf("session: load %s: %w", item, err)
	}
	if !ok {
		return "", "", fmt.Errorf("session: load %s: %w", item, apperr.ErrNotFound)
	}
	return row.Text(schema.NoteTitle), row.Text(schema.NoteBody), nil
}

// URI returns the address of the note being edited.
func (s *Session) URI() uri.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// State returns the current editing mode.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Title returns the in-memory title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Body returns the in-memory body.
func (s *Session) Body() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body
}

// OriginalContent returns the body captured when the session opened.
func (s *Session) OriginalContent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Modified reports whether the in-memory body differs from what was last written.
func (s *Session) Modified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body != s.saved
}

// SetBody replaces the in-memory body. Nothing is written until Save or Close.
func (s *Session) SetBody(body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperr.ErrSessionClosed
	}
	s.body = body
	return nil
}

// SetTitle replaces the in-memory title.
func (s *Session) SetTitle(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperr.ErrSessionClosed
	}
	s.title = title
	return nil
}

// Save writes the current title and body. A blank title on an inserted note
// is derived from the body, and the session moves to StateEdit.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperr.ErrSessionClosed
	}
	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) error {
	title := s.title
	if s.state == StateInsert && title == "" {
		title = schema.DeriveTitle(s.body)
	}
	vals := provider.Values{schema.NoteTitle: title, schema.NoteBody: s.body}
	if _, err := s.store.Update(ctx, s.addr, vals, provider.Predicate{}); err != nil {
		return fmt.Errorf("session: save %s: %w", s.addr, err)
	}
	s.title = title
	s.saved = s.body
	s.state = StateEdit
	s.logger.Debug("session: saved", slog.String("uri", s.addr.String()))
	return nil
}

// Close ends the session. An empty body deletes the note; otherwise the
// note is saved. If the save fails the session stays open.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperr.ErrSessionClosed
	}
	if s.body == "" {
		if _, err := s.store.Delete(ctx, s.addr, provider.Predicate{}); err != nil {
			return fmt.Errorf("session: delete empty %s: %w", s.addr, err)
		}
		s.logger.Debug("session: closed empty note", slog.String("uri", s.addr.String()))
		s.closed = true
		return nil
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	s.closed = true
	return nil
}

// Cancel discards the session's edits. An edited note gets its original
// body back with the title untouched; an inserted note is deleted.
func (s *Session) Cancel(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperr.ErrSessionClosed
	}
	switch s.state {
	case StateEdit:
		vals := provider.Values{schema.NoteBody: s.original}
		if _, err := s.store.Update(ctx, s.addr, vals, provider.Predicate{}); err != nil {
			return fmt.Errorf("session: revert %s: %w", s.addr, err)
		}
		s.body, s.saved = s.original, s.original
	case StateInsert:
		if _, err := s.store.Delete(ctx, s.addr, provider.Predicate{}); err != nil {
			return fmt.Errorf("session: undo insert %s: %w", s.addr, err)
		}
	}
	s.logger.Debug("session: cancelled", slog.String("uri", s.addr.String()), slog.String("state", s.state.String()))
	s.closed = true
	return nil
}

// Delete removes the note and ends the session.
func (s *Session) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperr.ErrSessionClosed
	}
	if _, err := s.store.Delete(ctx, s.addr, provider.Predicate{}); err != nil {
		return fmt.Errorf("session: delete %s: %w", s.addr, err)
	}
	s.body = ""
	s.closed = true
	s.logger.Debug("session: deleted", slog.String("uri", s.addr.String()))
	return nil
}

// Export writes the current body to dest through sink. A failed write
// leaves the session open.
func (s *Session) Export(ctx context.Context, sink storage.Sink, dest string) error {
	s.mu.Lock()
	body, closed := s.body, s.closed
	s.mu.Unlock()
	if closed {
		return apperr.ErrSessionClosed
	}
	if dest == "" {
		return fmt.Errorf("session: export: empty destination: %w", apperr.ErrConstraintViolation)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sink.WriteText(dest, body); err != nil {
		return fmt.Errorf("session: export to %q: %w", dest, err)
	}
	return nil
}
