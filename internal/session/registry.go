package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
)

// Registry keeps open sessions by id for callers that cannot hold a
// *Session across requests, such as the HTTP API.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	notify   func(Change)
	now      func() time.Time
}

type entry struct {
	s        *Session
	lastUsed time.Time
}

// Change reports a session entering or leaving a Registry.
type Change struct {
	ID   string `json:"id"`
	URI  string `json:"uri"`
	Open bool   `json:"open"`
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*entry), now: time.Now}
}

// Notify registers fn to be called after a session is added or dropped.
// fn must not call back into the registry.
func (r *Registry) Notify(fn func(Change)) {
	r.mu.Lock()
	r.notify = fn
	r.mu.Unlock()
}

func (r *Registry) emitLocked(c Change) {
	if r.notify != nil {
		r.notify(c)
	}
}

// Add stores s and returns its new id.
func (r *Registry) Add(s *Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &entry{s: s, lastUsed: r.now()}
	r.emitLocked(Change{ID: id, URI: s.URI().String(), Open: true})
	return id
}

// Get returns the open session with id and marks it used. Sessions that
// have closed are dropped and reported as not found.
func (r *Registry) Get(id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("session: id %q: %w", id, apperr.ErrNotFound)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session: %s: %w", id, apperr.ErrNotFound)
	}
	if e.s.Closed() {
		delete(r.sessions, id)
		r.emitLocked(Change{ID: id, URI: e.s.URI().String()})
		return nil, fmt.Errorf("session: %s: %w", id, apperr.ErrNotFound)
	}
	e.lastUsed = r.now()
	return e.s, nil
}

// Remove forgets the session with id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return
	}
	delete(r.sessions, id)
	r.emitLocked(Change{ID: id, URI: e.s.URI().String()})
}

// Len returns the number of tracked sessions, closed or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Expire closes and drops every session not used for longer than idle.
// Closing saves the body, or deletes the note when the body is empty, so an
// abandoned insert leaves no blank row. It returns the number of sessions
// dropped; close errors are logged and the session is dropped anyway.
func (r *Registry) Expire(ctx context.Context, idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*Session
	for id, e := range r.sessions {
		if e.lastUsed.After(cutoff) {
			continue
		}
		delete(r.sessions, id)
		r.emitLocked(Change{ID: id, URI: e.s.URI().String()})
		stale = append(stale, e.s)
	}
	r.mu.Unlock()

	for _, s := range stale {
		if s.Closed() {
			continue
		}
		if err := s.Close(ctx); err != nil {
			slog.Warn("session: close on expiry failed",
				slog.String("uri", s.URI().String()), slog.String("error", err.Error()))
		}
	}
	return len(stale)
}

// RunExpiry calls Expire every interval until ctx is done.
func (r *Registry) RunExpiry(ctx context.Context, idle, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Expire(ctx, idle); n > 0 {
				slog.Info("session: expired idle sessions", slog.Int("count", n))
			}
		}
	}
}
