// Package observer detects writes to the note database made by other
// processes (another CLI invocation, a second server) and reports them as
// collection changes.
package observer

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Lobco894/NotePad-new-master/internal/provider"
	"github.com/Lobco894/NotePad-new-master/internal/schema"
	"github.com/Lobco894/NotePad-new-master/internal/uri"
)

const debounce = 200 * time.Millisecond

// Store is what the observer needs from the note store.
type Store interface {
	Path() string
	Resolver() *uri.Resolver
	Observe(fn provider.ChangeFunc)
	Fingerprint(ctx context.Context) (provider.Fingerprint, error)
}

// Watch watches the directory holding the store's database file until ctx
// is cancelled. After a burst of file events settles it compares table
// fingerprints and calls cb with the collection address of every table that
// changed without a mutation through this store.
func Watch(ctx context.Context, store Store, logger *slog.Logger, cb provider.ChangeFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dbPath, err := filepath.Abs(store.Path())
	if err != nil {
		return err
	}
	dir, base := filepath.Dir(dbPath), filepath.Base(dbPath)
	if err := w.Add(dir); err != nil {
		return err
	}

	var local atomic.Int64
	store.Observe(func(uri.Address) { local.Add(1) })

	last, err := store.Fingerprint(ctx)
	if err != nil {
		return err
	}
	seen := local.Load()

	logger.Info("observer: started", slog.String("db", dbPath))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	r := store.Resolver()
	collections := map[schema.Table]uri.Address{
		schema.Notes:      r.Notes(),
		schema.Categories: r.Categories(),
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("observer: stopped")
			return nil

		case <-timerCh:
			fp, err := store.Fingerprint(ctx)
			if err != nil {
				logger.Warn("observer: fingerprint failed", slog.String("error", err.Error()))
				continue
			}
			n := local.Load()
			ownWrites := n != seen
			seen = n
			for table, addr := range collections {
				if fp[table] == last[table] {
					continue
				}
				if ownWrites {
					logger.Debug("observer: change absorbed", slog.String("table", string(table)))
					continue
				}
				logger.Debug("observer: external change", slog.String("uri", addr.String()))
				if cb != nil {
					cb(addr)
				}
			}
			last = fp

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !strings.HasPrefix(name, base) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("observer: error", slog.String("error", watchErr.Error()))
		}
	}
}
