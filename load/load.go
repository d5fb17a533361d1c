/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package load provides a high-level API for loading a theme from a file or
// URL and projecting it for its effective mode.
package load

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"bennypowers.dev/vigil/config"
	"bennypowers.dev/vigil/convert"
	"bennypowers.dev/vigil/document"
	"bennypowers.dev/vigil/fs"
	"bennypowers.dev/vigil/parser"
	"bennypowers.dev/vigil/theme"
)

var (
	// ErrRemoteDisabled is returned for URLs when no Fetcher is configured.
	ErrRemoteDisabled = errors.New("remote themes require a fetcher")

	// ErrRemote wraps failures fetching a remote theme.
	ErrRemote = errors.New("remote fetch failed")
)

// Options configures how themes are loaded.
type Options struct {
	// Root is the directory for relative paths and config lookup.
	Root string

	// FS is the filesystem to use. Defaults to the OS filesystem if nil.
	FS fs.FileSystem

	// Mode is the requested mode. Takes precedence over the config file.
	// Empty uses the config's mode.
	Mode theme.Mode

	// Config replaces the config file under Root, e.g. one already
	// overlaid with flags and environment. Its strict setting is final.
	Config *config.Config

	// Strict rejects malformed files. It is combined with the config's
	// strict setting: either enables it.
	Strict bool

	// Fetcher enables http(s) URLs. Nil means local files only.
	Fetcher Fetcher

	// FetchTimeout bounds a remote fetch. Defaults to DefaultTimeout.
	FetchTimeout time.Duration
}

// Theme is a loaded and projected theme.
type Theme struct {
	// Source is the path or URL the theme came from.
	Source string
	// Document is the parsed tree.
	Document *document.Document
	// Metadata is read from [metadata].
	Metadata theme.Metadata
	// Mode is the mode projected; Fallback reports it is not the one asked for.
	Mode     theme.Mode
	Fallback bool
	// HasBothModes reports whether a mode toggle makes sense.
	HasBothModes bool
	// Variables is the projection for Mode.
	Variables theme.Variables
}

// IsRemote reports whether spec is an http(s) URL.
func IsRemote(spec string) bool {
	return strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://")
}

// Load loads a theme from a local path or an http(s) URL.
//
// The loading process:
//  1. Uses Options.Config, or loads .config/vigil.{yaml,yml,json} under Root
//  2. Applies Options over config
//  3. Reads the file, or fetches the URL through Options.Fetcher
//  4. Parses it (strictly if configured)
//  5. Resolves the mode, falling back to the other palette
//  6. Projects variables
func Load(ctx context.Context, spec string, opts Options) (*Theme, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = fs.NewOSFileSystem()
	}

	root := opts.Root
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path: %w", err)
		}
		root = absRoot
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.LoadOrDefault(filesystem, root)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	mode := opts.Mode
	if mode == "" {
		fileMode, err := cfg.ModeForFile(spec)
		if err != nil {
			return nil, err
		}
		mode = fileMode
	}
	parseOpts := cfg.ParserOptions()
	parseOpts.Strict = parseOpts.Strict || opts.Strict

	content, err := readContent(ctx, spec, root, filesystem, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", spec, err)
	}

	doc, err := parser.NewThemeParser().Parse(content, parseOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", spec, err)
	}

	resolved, vars, err := convert.Resolve(doc, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", spec, err)
	}

	return &Theme{
		Source:       spec,
		Document:     doc,
		Metadata:     theme.MetadataOf(doc),
		Mode:         resolved,
		Fallback:     resolved != mode,
		HasBothModes: theme.HasBothModes(doc),
		Variables:    vars,
	}, nil
}

func readContent(ctx context.Context, spec, root string, filesystem fs.FileSystem, opts Options) ([]byte, error) {
	if IsRemote(spec) {
		if opts.Fetcher == nil {
			return nil, ErrRemoteDisabled
		}
		timeout := opts.FetchTimeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		content, err := opts.Fetcher.Fetch(ctx, spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRemote, err)
		}
		return content, nil
	}

	path := spec
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	content, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, nil
}
