// Package provider implements the note store: a URI-addressed query/insert/update/delete
// contract over the notes and categories tables, backed by SQLite.
package provider

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/schema"
	"github.com/Lobco894/NotePad-new-master/internal/uri"
)

// Option configures a Store.
type Option func(*Store)

// WithAuthority sets the authority accepted by the store's resolver.
func WithAuthority(authority string) Option {
	return func(s *Store) {
		s.resolver = uri.NewResolver(authority)
	}
}

// WithClock overrides the time source used for created/modified stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithDefaultColor sets the color stored for categories inserted without one.
func WithDefaultColor(color string) Option {
	return func(s *Store) {
		if color != "" {
			s.defaultColor = color
		}
	}
}

// ChangeFunc is called after a mutation commits with the address that changed.
type ChangeFunc func(addr uri.Address)

// Store is the SQLite-backed note store.
type Store struct {
	conn         *sql.DB
	path         string
	resolver     *uri.Resolver
	now          func() time.Time
	logger       *slog.Logger
	defaultColor string

	mu        sync.RWMutex
	observers []ChangeFunc
}

// Open opens (or creates) the SQLite database at dsn and applies the schema.
func Open(dsn string, opts ...Option) (*Store, error) {
	s := &Store{
		resolver:     uri.NewResolver(""),
		now:          time.Now,
		logger:       slog.Default(),
		defaultColor: schema.DefaultColor,
	}
	for _, opt := range opts {
		opt(s)
	}

	conn, err := sql.Open(driverName, dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("provider: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("provider: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("provider: apply schema: %w", err)
	}
	if err := initFullText(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("provider: apply full-text schema: %w", err)
	}
	s.conn = conn
	s.path = dsn
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Resolver returns the resolver for this store's authority.
func (s *Store) Resolver() *uri.Resolver {
	return s.resolver
}

// Type returns the MIME type of addr.
func (s *Store) Type(addr uri.Address) (string, error) {
	res, err := s.resolve(addr)
	if err != nil {
		return "", err
	}
	return res.MIMEType, nil
}

// Observe registers fn to be called after every committed mutation.
func (s *Store) Observe(fn ChangeFunc) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Store) notify(addr uri.Address) {
	s.mu.RLock()
	obs := s.observers
	s.mu.RUnlock()
	for _, fn := range obs {
		fn(addr)
	}
}

// resolve checks that addr belongs to this store's authority and resolves it.
func (s *Store) resolve(addr uri.Address) (uri.Resolution, error) {
	if addr.Authority != s.resolver.Authority() {
		return uri.Resolution{}, fmt.Errorf("provider: authority %q: %w", addr.Authority, apperr.ErrUnsupportedAddress)
	}
	return addr.Resolve()
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}
