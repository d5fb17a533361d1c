/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	vfs "bennypowers.dev/vigil/fs"
	"bennypowers.dev/vigil/store"
	"bennypowers.dev/vigil/testutil"
)

func startWatcher(t *testing.T) (*store.Store, string, <-chan store.Event, func()) {
	t.Helper()
	dir := testutil.CopyFixtureDir(t, "fixtures/store")
	s := store.New(vfs.NewOSFileSystem(), dir)

	w, err := s.NewWatcher(20 * time.Millisecond)
	require.NoError(t, err)

	events := make(chan store.Event, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx, func(ev store.Event) { events <- ev })
	}()

	return s, dir, events, func() {
		cancel()
		<-done
	}
}

func waitEvent(t *testing.T, events <-chan store.Event) store.Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return store.Event{}
	}
}

func TestWatcher_DefaultThemeUpdated(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, dir, events, stop := startWatcher(t)
	defer stop()

	path := filepath.Join(dir, "themes", "default", "paper.toml")
	require.NoError(t, os.WriteFile(path, []byte("[light.colors]\nbackground = \"#fff\"\n"), 0644))

	ev := waitEvent(t, events)
	assert.Equal(t, store.Updated, ev.Kind)
	assert.Equal(t, store.Default, ev.Source)
	assert.Equal(t, "paper", ev.Theme)
	assert.Equal(t, store.ThemeID(store.Default, "", "paper"), ev.ID)
}

func TestWatcher_NewUserDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, dir, events, stop := startWatcher(t)
	defer stop()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "uploads", "carol"), 0755))
	// Give the watcher a moment to pick up the new directory.
	time.Sleep(100 * time.Millisecond)

	_, err := s.Save("carol", "neon", []byte("[dark.colors]\naccent = \"#0ff\"\n"))
	require.NoError(t, err)

	ev := waitEvent(t, events)
	assert.Equal(t, store.Created, ev.Kind)
	assert.Equal(t, store.User, ev.Source)
	assert.Equal(t, "carol", ev.Owner)
	assert.Equal(t, "neon", ev.Theme)
}

func TestWatcher_Removed(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _, events, stop := startWatcher(t)
	defer stop()

	require.NoError(t, s.Delete("alice", "dusk"))

	ev := waitEvent(t, events)
	assert.Equal(t, store.Removed, ev.Kind)
	assert.Equal(t, "alice", ev.Owner)
	assert.Equal(t, "dusk", ev.Theme)
}

func TestWatcher_CloseWithoutRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := testutil.CopyFixtureDir(t, "fixtures/store")
	w, err := store.New(vfs.NewOSFileSystem(), dir).NewWatcher(0)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}
