/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"bennypowers.dev/vigil/internal/logger"
)

// DefaultDebounce collapses bursts of filesystem events, such as an editor's
// write-then-rename, into one change.
const DefaultDebounce = 500 * time.Millisecond

// EventKind describes a theme change.
type EventKind string

const (
	Created EventKind = "created"
	Updated EventKind = "updated"
	Removed EventKind = "removed"
)

// Event reports a change to a theme file.
type Event struct {
	Kind   EventKind `json:"kind"`
	Source Source    `json:"source"`
	Owner  string    `json:"owner,omitempty"`
	Theme  string    `json:"theme"`
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
}

// Watcher watches a store's directories on the host filesystem and
// invalidates cached trees as files change.
type Watcher struct {
	store    *Store
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// NewWatcher starts watching the default theme directory, the uploads
// directory and every existing user directory. Directories created later
// under uploads are picked up as they appear.
func (s *Store) NewWatcher(debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{store: s, debounce: debounce, fsw: fsw}

	uploads := filepath.Join(s.dir, "uploads")
	for _, dir := range []string{s.defaultDir(), uploads} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	entries, err := os.ReadDir(uploads)
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to read %s: %w", uploads, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := fsw.Add(filepath.Join(uploads, e.Name())); err != nil {
				_ = fsw.Close()
				return nil, fmt.Errorf("failed to watch %s: %w", e.Name(), err)
			}
		}
	}
	return w, nil
}

// Close stops the watcher without running it.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers debounced events to emit until ctx is done. It closes the
// watcher before returning.
func (w *Watcher) Run(ctx context.Context, emit func(Event)) error {
	defer func() { _ = w.fsw.Close() }()
	log := logger.WithComponent("store.watch")

	pending := make(map[string]fsnotify.Op)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && w.watchUserDir(ev.Name) {
				continue
			}
			if !isThemeFile(ev.Name) || ev.Op == fsnotify.Chmod {
				continue
			}
			pending[ev.Name] |= ev.Op
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				log.Warn().Err(err).Msg("watch queue overflowed; events may be missing")
				continue
			}
			log.Error().Err(err).Msg("watch error")

		case <-timer.C:
			for path, op := range pending {
				w.store.Invalidate(path)
				if ev, ok := w.event(path, op); ok {
					log.Debug().Str("kind", string(ev.Kind)).Str("theme", ev.Theme).Msg("theme changed")
					emit(ev)
				}
			}
			clear(pending)
		}
	}
}

// watchUserDir adds a newly created directory under uploads.
func (w *Watcher) watchUserDir(path string) bool {
	if filepath.Dir(path) != filepath.Join(w.store.dir, "uploads") {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	if err := w.fsw.Add(path); err != nil {
		logger.Warn("Failed to watch %s: %v", path, err)
	}
	return true
}

func (w *Watcher) event(path string, op fsnotify.Op) (Event, bool) {
	rel, err := filepath.Rel(w.store.dir, path)
	if err != nil {
		return Event{}, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	name := strings.TrimSuffix(parts[len(parts)-1], Extension)

	ev := Event{Theme: name, Time: time.Now()}
	switch {
	case len(parts) == 3 && parts[0] == "themes" && parts[1] == string(Default):
		ev.Source = Default
	case len(parts) == 3 && parts[0] == "uploads":
		ev.Source = User
		ev.Owner = parts[1]
	default:
		return Event{}, false
	}
	ev.ID = ThemeID(ev.Source, ev.Owner, name)

	_, err = os.Stat(path)
	switch {
	case err != nil:
		ev.Kind = Removed
	case op.Has(fsnotify.Create):
		ev.Kind = Created
	default:
		ev.Kind = Updated
	}
	return ev, true
}

// isThemeFile skips hidden files such as atomic-write temporaries.
func isThemeFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, Extension) && !strings.HasPrefix(base, ".")
}
