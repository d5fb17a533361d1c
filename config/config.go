/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config loads vigil project configuration.
package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"bennypowers.dev/vigil/parser"
	"bennypowers.dev/vigil/theme"
)

// DefaultListen is the address `vigil serve` binds when none is configured.
const DefaultListen = ":8080"

// DefaultRateLimit is the number of upload/delete requests allowed per
// client per minute.
const DefaultRateLimit = 10

// DefaultCommunityIndex lists the themes of the community repository.
const DefaultCommunityIndex = "https://api.github.com/repos/brendlij/vigilance-community/contents/themes"

// Config represents the vigil configuration.
type Config struct {
	// ThemeDir is the data directory holding themes/default and uploads.
	ThemeDir string `yaml:"themeDir" json:"themeDir"`

	// Mode is the preferred color mode ("dark" or "light").
	Mode string `yaml:"mode" json:"mode"`

	// Strict rejects malformed theme files instead of skipping bad lines.
	Strict bool `yaml:"strict" json:"strict"`

	// Prefix is prepended to every custom property name.
	Prefix string `yaml:"prefix" json:"prefix"`

	// Selector is the CSS rule that receives the custom properties.
	Selector string `yaml:"selector" json:"selector"`

	// Files specifies theme files to load (paths or globs).
	Files []FileSpec `yaml:"files" json:"files"`

	// Outputs lists the files `vigil convert` writes when given no flags.
	Outputs []OutputSpec `yaml:"outputs" json:"outputs"`

	// Server configures `vigil serve`.
	Server ServerConfig `yaml:"server" json:"server"`
}

// FileSpec is a theme file entry. It can be a plain path or an object
// overriding the mode for that file.
type FileSpec struct {
	Path string `yaml:"path" json:"path"`
	Mode string `yaml:"mode" json:"mode"`
}

// UnmarshalYAML handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Path = node.Value
		return nil
	}

	type rawFileSpec FileSpec
	return node.Decode((*rawFileSpec)(f))
}

// UnmarshalJSON handles both string and object forms for FileSpec.
func (f *FileSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Path = s
		return nil
	}

	type rawFileSpec FileSpec
	return json.Unmarshal(data, (*rawFileSpec)(f))
}

// OutputSpec describes one generated file.
type OutputSpec struct {
	// Format is one of the convert formats (css, json, scss, js).
	Format string `yaml:"format" json:"format"`
	// Path is the output file path.
	Path string `yaml:"path" json:"path"`
	// Mode overrides the global mode for this output.
	Mode string `yaml:"mode" json:"mode"`
	// Prefix overrides the global prefix for this output.
	Prefix string `yaml:"prefix" json:"prefix"`
}

// ServerConfig configures the theme API server.
type ServerConfig struct {
	Listen      string   `yaml:"listen" json:"listen"`
	RateLimit   int      `yaml:"rateLimit" json:"rateLimit"`
	CorsOrigins []string `yaml:"corsOrigins" json:"corsOrigins"`
	// CommunityIndex is the repository contents URL listing community themes.
	CommunityIndex string `yaml:"communityIndex" json:"communityIndex"`
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		ThemeDir: ".",
		Mode:     string(theme.Dark),
		Selector: ":root",
		Server: ServerConfig{
			Listen:         DefaultListen,
			RateLimit:      DefaultRateLimit,
			CommunityIndex: DefaultCommunityIndex,
		},
	}
}

// applyDefaults fills unset fields from Default.
func (c *Config) applyDefaults() {
	d := Default()
	if c.ThemeDir == "" {
		c.ThemeDir = d.ThemeDir
	}
	if c.Mode == "" {
		c.Mode = d.Mode
	}
	if c.Selector == "" {
		c.Selector = d.Selector
	}
	if c.Server.Listen == "" {
		c.Server.Listen = d.Server.Listen
	}
	if c.Server.RateLimit <= 0 {
		c.Server.RateLimit = d.Server.RateLimit
	}
	if c.Server.CommunityIndex == "" {
		c.Server.CommunityIndex = d.Server.CommunityIndex
	}
}

// ThemeMode returns the configured preferred mode.
func (c *Config) ThemeMode() (theme.Mode, error) {
	mode, err := theme.ParseMode(c.Mode)
	if err != nil {
		return "", fmt.Errorf("config: %w", err)
	}
	return mode, nil
}

// ParserOptions returns the parser options implied by the config.
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{Strict: c.Strict}
}

// ModeForFile returns the mode for path: a matching FileSpec override,
// else the global mode.
func (c *Config) ModeForFile(path string) (theme.Mode, error) {
	for _, spec := range c.Files {
		if spec.Path == path && spec.Mode != "" {
			return theme.ParseMode(spec.Mode)
		}
	}
	return c.ThemeMode()
}

// ModeForOutput returns the mode for an output: its own override, else the
// global mode.
func (c *Config) ModeForOutput(out OutputSpec) (theme.Mode, error) {
	if out.Mode != "" {
		return theme.ParseMode(out.Mode)
	}
	return c.ThemeMode()
}

// FilePaths returns the list of file paths from all FileSpecs.
func (c *Config) FilePaths() []string {
	paths := make([]string, 0, len(c.Files))
	for _, spec := range c.Files {
		paths = append(paths, spec.Path)
	}
	return paths
}
