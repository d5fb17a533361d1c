/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	vfs "bennypowers.dev/vigil/fs"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "vigil"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json"}

// Load searches for .config/vigil.{yaml,yml,json} under rootDir.
// It returns nil without error when no config file exists.
func Load(filesystem vfs.FileSystem, rootDir string) (*Config, error) {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if !filesystem.Exists(configPath) {
			continue
		}

		data, err := filesystem.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		cfg := &Config{}
		switch ext {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, cfg)
		case ".json":
			err = json.Unmarshal(jsonc.ToJSON(data), cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
		}

		cfg.applyDefaults()
		return cfg, nil
	}

	return nil, nil
}

// LoadOrDefault returns the config under rootDir, or defaults when there is
// none. A config file that fails to load is reported, not ignored.
func LoadOrDefault(filesystem vfs.FileSystem, rootDir string) (*Config, error) {
	cfg, err := Load(filesystem, rootDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return Default(), nil
	}
	return cfg, nil
}

// ResolveThemeDir returns ThemeDir, made absolute against rootDir.
func (c *Config) ResolveThemeDir(rootDir string) string {
	if filepath.IsAbs(c.ThemeDir) {
		return c.ThemeDir
	}
	return filepath.Join(rootDir, c.ThemeDir)
}

// ExpandFiles expands the glob patterns in Files against rootDir and
// returns sorted, de-duplicated paths. Plain paths are passed through even
// when they do not exist; errors surface when the file is read.
func (c *Config) ExpandFiles(filesystem vfs.FileSystem, rootDir string) ([]string, error) {
	var result []string
	for _, spec := range c.Files {
		expanded, err := expandFilePath(filesystem, rootDir, spec.Path)
		if err != nil {
			return nil, err
		}
		result = append(result, expanded...)
	}
	slices.Sort(result)
	return slices.Compact(result), nil
}

func expandFilePath(filesystem vfs.FileSystem, rootDir, pattern string) ([]string, error) {
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(rootDir, pattern)
	}
	pattern = filepath.ToSlash(pattern)

	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}

	base, rel := doublestar.SplitPattern(pattern)
	matches, err := doublestar.Glob(vfs.Sub(filesystem, base), rel, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = path.Join(base, m)
	}
	return paths, nil
}
