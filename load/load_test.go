/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package load_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/vigil/config"
	"bennypowers.dev/vigil/load"
	"bennypowers.dev/vigil/parser"
	"bennypowers.dev/vigil/testutil"
	"bennypowers.dev/vigil/theme"
)

func TestLoad_LocalPreferredMode(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")

	th, err := load.Load(context.Background(), "midnight.toml", load.Options{Root: "/project", FS: mfs})
	require.NoError(t, err)

	assert.Equal(t, "Midnight", th.Metadata.Name)
	assert.Equal(t, theme.Dark, th.Mode)
	assert.False(t, th.Fallback)
	assert.True(t, th.HasBothModes)
	accent, _ := th.Variables.Get("--color-accent")
	assert.Equal(t, "#14b8a6", accent)
}

func TestLoad_FallsBackToOtherMode(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")

	th, err := load.Load(context.Background(), "/project/dusk.toml", load.Options{
		Root: "/project",
		FS:   mfs,
		Mode: theme.Dark,
	})
	require.NoError(t, err)

	assert.Equal(t, theme.Light, th.Mode)
	assert.True(t, th.Fallback)
	assert.False(t, th.HasBothModes)
}

func TestLoad_ConfigSuppliesModeAndStrict(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")
	mfs.AddFile("/project/.config/vigil.yaml", "mode: light\nstrict: true\n", 0644)

	th, err := load.Load(context.Background(), "midnight.toml", load.Options{Root: "/project", FS: mfs})
	require.NoError(t, err)
	assert.Equal(t, theme.Light, th.Mode)

	_, err = load.Load(context.Background(), "malformed.toml", load.Options{Root: "/project", FS: mfs})
	var perr *parser.Error
	assert.ErrorAs(t, err, &perr)
}

func TestLoad_StrictOption(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")

	_, err := load.Load(context.Background(), "malformed.toml", load.Options{Root: "/project", FS: mfs, Strict: true})
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Len(t, perr.Diagnostics, 5)
}

func TestLoad_GivenConfigReplacesFile(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")
	mfs.AddFile("/project/.config/vigil.yaml", "strict: true\n", 0644)
	mfs.AddFile("/project/sloppy.toml", "[dark.colors]\naccent = \"#f00\"\njust some words\n", 0644)

	_, err := load.Load(context.Background(), "sloppy.toml", load.Options{Root: "/project", FS: mfs})
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)

	cfg := config.Default()
	cfg.Strict = false
	th, err := load.Load(context.Background(), "sloppy.toml", load.Options{Root: "/project", FS: mfs, Config: cfg})
	require.NoError(t, err)
	accent, _ := th.Variables.Get("--color-accent")
	assert.Equal(t, "#f00", accent)
}

func TestLoad_NoColors(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")
	mfs.AddFile("/project/bare.toml", "[metadata]\nname = \"Bare\"\n", 0644)

	_, err := load.Load(context.Background(), "bare.toml", load.Options{Root: "/project", FS: mfs})
	assert.ErrorIs(t, err, theme.ErrNoColors)
}

func TestLoad_MissingFile(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")

	_, err := load.Load(context.Background(), "nope.toml", load.Options{Root: "/project", FS: mfs})
	assert.Error(t, err)
}

func TestLoad_Remote(t *testing.T) {
	body := testutil.LoadFixtureFile(t, "fixtures/themes/dusk.toml")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	th, err := load.Load(context.Background(), srv.URL+"/dusk.toml", load.Options{
		FS:      testutil.NewFixtureFS(t, "fixtures/themes", "/project"),
		Root:    "/project",
		Fetcher: load.NewHTTPFetcher(load.DefaultMaxSize),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dusk", th.Metadata.Name)
	assert.Equal(t, theme.Light, th.Mode)
}

func TestLoad_RemoteWithoutFetcher(t *testing.T) {
	_, err := load.Load(context.Background(), "https://example.com/theme.toml", load.Options{
		FS:   testutil.NewFixtureFS(t, "fixtures/themes", "/project"),
		Root: "/project",
	})
	assert.ErrorIs(t, err, load.ErrRemoteDisabled)
}

type failingFetcher struct{}

func (failingFetcher) Fetch(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestLoad_RemoteFailure(t *testing.T) {
	_, err := load.Load(context.Background(), "https://example.com/theme.toml", load.Options{
		FS:      testutil.NewFixtureFS(t, "fixtures/themes", "/project"),
		Root:    "/project",
		Fetcher: failingFetcher{},
	})
	assert.ErrorIs(t, err, load.ErrRemote)
}

func TestLoad_RemoteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := load.Load(context.Background(), srv.URL+"/missing.toml", load.Options{
		FS:      testutil.NewFixtureFS(t, "fixtures/themes", "/project"),
		Root:    "/project",
		Fetcher: load.NewHTTPFetcher(load.DefaultMaxSize),
	})
	assert.ErrorIs(t, err, load.ErrRemote)
	assert.ErrorIs(t, err, load.ErrNotFound)
}

func TestLoad_RemoteHTMLPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>Sign in</body></html>"))
	}))
	defer srv.Close()

	_, err := load.Load(context.Background(), srv.URL+"/dusk.toml", load.Options{
		FS:      testutil.NewFixtureFS(t, "fixtures/themes", "/project"),
		Root:    "/project",
		Fetcher: load.NewHTTPFetcher(load.DefaultMaxSize),
	})
	assert.ErrorIs(t, err, load.ErrNotTheme)
	var perr *parser.Error
	assert.False(t, errors.As(err, &perr))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, load.IsRemote("https://example.com/a.toml"))
	assert.True(t, load.IsRemote("http://localhost/a.toml"))
	assert.False(t, load.IsRemote("themes/a.toml"))
	assert.False(t, load.IsRemote("/abs/https.toml"))
}
