/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cli holds what every vigil command shares: the persistent flags
// and the config they resolve to.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"bennypowers.dev/vigil/config"
	"bennypowers.dev/vigil/fs"
	"bennypowers.dev/vigil/internal/logger"
	"bennypowers.dev/vigil/load"
	"bennypowers.dev/vigil/theme"
)

// Persistent flag names.
const (
	FlagRoot     = "root"
	FlagThemeDir = "theme-dir"
	FlagMode     = "mode"
	FlagStrict   = "strict"
	FlagPrefix   = "prefix"
	FlagSelector = "selector"
	FlagLogLevel = "log-level"
)

// flagKeys binds persistent flags to config keys.
var flagKeys = map[string]string{
	FlagThemeDir: config.KeyThemeDir,
	FlagMode:     config.KeyMode,
	FlagStrict:   config.KeyStrict,
	FlagPrefix:   config.KeyPrefix,
	FlagSelector: config.KeySelector,
}

// AddPersistentFlags registers the flags every command understands.
func AddPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(FlagRoot, ".", "Project root holding .config/vigil.{yaml,yml,json}")
	flags.String(FlagThemeDir, "", "Theme store directory (default from config)")
	flags.StringP(FlagMode, "m", "", "Color mode: dark or light (default from config)")
	flags.Bool(FlagStrict, false, "Reject malformed theme files")
	flags.String(FlagPrefix, "", "Prefix inserted into custom property names")
	flags.String(FlagSelector, "", "CSS selector receiving the declarations")
	flags.String(FlagLogLevel, "info", "Log level: debug, info, warn, error")
}

// Env is the resolved environment of a command.
type Env struct {
	FS     fs.FileSystem
	Root   string
	Config *config.Config
}

// Load resolves the environment of cmd on the host filesystem.
func Load(cmd *cobra.Command) (*Env, error) {
	return LoadFS(cmd, fs.NewOSFileSystem())
}

// LoadFS resolves the environment of cmd on filesystem. Flags and VIGIL_*
// environment variables override the config file.
func LoadFS(cmd *cobra.Command, filesystem fs.FileSystem) (*Env, error) {
	if level, err := cmd.Flags().GetString(FlagLogLevel); err == nil {
		if err := logger.SetLevel(level); err != nil {
			return nil, err
		}
	}

	root, _ := cmd.Flags().GetString(FlagRoot)
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path: %w", err)
		}
		root = abs
	}

	cfg, err := config.LoadOrDefault(filesystem, root)
	if err != nil {
		return nil, err
	}

	v := config.NewViper()
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding --%s: %w", flag, err)
			}
		}
	}
	cfg.Overlay(v)

	if _, err := cfg.ThemeMode(); err != nil {
		return nil, err
	}
	return &Env{FS: filesystem, Root: root, Config: cfg}, nil
}

// ModeFlag returns the mode given on the command line, or "" when the flag
// was not set.
func ModeFlag(cmd *cobra.Command) (theme.Mode, error) {
	f := cmd.Flags().Lookup(FlagMode)
	if f == nil || !f.Changed {
		return "", nil
	}
	return theme.ParseMode(f.Value.String())
}

// Files returns args, or the config's files when args is empty.
func (e *Env) Files(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	files, err := e.Config.ExpandFiles(e.FS, e.Root)
	if err != nil {
		return nil, fmt.Errorf("error expanding config files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files specified and no files found in config")
	}
	return files, nil
}

// LoadOptions returns options for loading file with load.Load. An
// explicit --mode wins over the config's per-file and global modes, and
// the overlaid config is passed along so --strict=false or VIGIL_STRICT
// can relax a strict config file.
func (e *Env) LoadOptions(cmd *cobra.Command, file string) (load.Options, error) {
	mode, err := ModeFlag(cmd)
	if err != nil {
		return load.Options{}, err
	}
	if mode == "" {
		if mode, err = e.Config.ModeForFile(file); err != nil {
			return load.Options{}, err
		}
	}
	return load.Options{
		Root:    e.Root,
		FS:      e.FS,
		Mode:    mode,
		Config:  e.Config,
		Fetcher: load.NewHTTPFetcher(load.DefaultMaxSize),
	}, nil
}
