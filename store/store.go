/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package store manages theme files on disk: bundled default themes under
// <dir>/themes/default and user uploads under <dir>/uploads/<user>.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bennypowers.dev/vigil/document"
	vfs "bennypowers.dev/vigil/fs"
	"bennypowers.dev/vigil/internal/logger"
	"bennypowers.dev/vigil/parser"
	"bennypowers.dev/vigil/theme"
)

// Extension is the file extension of theme files.
const Extension = ".toml"

// MaxNameLength bounds theme and user names.
const MaxNameLength = 100

var (
	// ErrNotFound is returned when a theme file does not exist.
	ErrNotFound = errors.New("theme not found")

	// ErrInvalidName is returned for theme or user names outside
	// [A-Za-z0-9_-]{1,100}.
	ErrInvalidName = errors.New("invalid name: use only letters, digits, dash and underscore")

	// ErrUnknownSource is returned for sources other than default and user.
	ErrUnknownSource = errors.New("unknown theme source")

	// ErrInvalidContent is returned for uploads that do not look like a
	// theme file.
	ErrInvalidContent = errors.New("invalid theme content")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// themeNamespace scopes the name-based theme IDs.
var themeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://bennypowers.dev/vigil/themes"))

// Source says where a theme lives.
type Source string

const (
	// Default themes ship with the dashboard.
	Default Source = "default"
	// User themes were uploaded by a user.
	User Source = "user"
)

// ParseSource parses a source name.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case Default, User:
		return Source(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, s)
}

// Info describes a stored theme.
type Info struct {
	ID string `json:"id"`
	// Theme is the file name without extension. It addresses the theme in
	// the API.
	Theme string `json:"theme"`
	// Name is the metadata name, or the file name when the theme has none.
	Name string `json:"name"`
	// DisplayName is Name, title-cased when it came from the file name.
	DisplayName  string       `json:"display_name"`
	Description  string       `json:"description"`
	Version      string       `json:"version"`
	Author       string       `json:"author"`
	Source       Source       `json:"source"`
	Owner        string       `json:"owner,omitempty"`
	Modes        []theme.Mode `json:"modes"`
	HasBothModes bool         `json:"has_both_modes"`
	Path         string       `json:"path"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	doc     *document.Document
}

// Store reads and writes theme files. It is safe for concurrent use.
type Store struct {
	dir string
	fs  vfs.FileSystem

	mu    sync.RWMutex
	cache map[string]cacheEntry
	loads singleflight.Group
}

// New creates a store rooted at dir.
func New(filesystem vfs.FileSystem, dir string) *Store {
	if filesystem == nil {
		filesystem = vfs.NewOSFileSystem()
	}
	return &Store{
		dir:   dir,
		fs:    filesystem,
		cache: make(map[string]cacheEntry),
	}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// ValidName reports whether name may be used as a theme or user name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ThemeID returns the stable ID of a theme.
func ThemeID(source Source, owner, name string) string {
	return uuid.NewSHA1(themeNamespace, []byte(string(source)+"/"+owner+"/"+name)).String()
}

// DefaultThemes lists the bundled themes.
func (s *Store) DefaultThemes() ([]Info, error) {
	return s.list(s.defaultDir(), Default, "")
}

// UserThemes lists the themes uploaded by user. A user without uploads has
// no themes.
func (s *Store) UserThemes(user string) ([]Info, error) {
	if !ValidName(user) {
		return nil, fmt.Errorf("user %q: %w", user, ErrInvalidName)
	}
	return s.list(s.userDir(user), User, user)
}

// validBundledName reports whether name can address a file in the default
// theme directory. Bundled themes are installed by hand rather than
// uploaded, so any single path element is accepted.
func validBundledName(name string) bool {
	if name == "" || len(name) > 255 || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

// Path returns the file path of a theme. Uploaded themes must satisfy
// ValidName; bundled ones only need to be a plain file name.
func (s *Store) Path(source Source, owner, name string) (string, error) {
	switch source {
	case Default:
		if !validBundledName(name) {
			return "", fmt.Errorf("theme %q: %w", name, ErrInvalidName)
		}
		return filepath.Join(s.defaultDir(), name+Extension), nil
	case User:
		if !ValidName(name) {
			return "", fmt.Errorf("theme %q: %w", name, ErrInvalidName)
		}
		if !ValidName(owner) {
			return "", fmt.Errorf("user %q: %w", owner, ErrInvalidName)
		}
		return filepath.Join(s.userDir(owner), name+Extension), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, source)
}

// Content returns the raw text of a theme.
func (s *Store) Content(source Source, owner, name string) ([]byte, error) {
	path, err := s.Path(source, owner, name)
	if err != nil {
		return nil, err
	}
	content, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, notFound(path, err)
	}
	return content, nil
}

// Document returns the parsed theme, reusing the cached tree while the file
// is unchanged.
func (s *Store) Document(source Source, owner, name string) (*document.Document, error) {
	path, err := s.Path(source, owner, name)
	if err != nil {
		return nil, err
	}
	return s.document(path)
}

// Save writes a user theme and returns its description.
func (s *Store) Save(user, name string, content []byte) (Info, error) {
	path, err := s.Path(User, user, name)
	if err != nil {
		return Info{}, err
	}
	if !looksLikeTheme(content) {
		return Info{}, fmt.Errorf("%w: expected at least one [section] header", ErrInvalidContent)
	}

	if err := s.fs.MkdirAll(s.userDir(user), 0755); err != nil {
		return Info{}, fmt.Errorf("failed to create user directory: %w", err)
	}
	if err := s.fs.WriteFile(path, content, 0644); err != nil {
		return Info{}, fmt.Errorf("failed to write theme file: %w", err)
	}
	s.Invalidate(path)

	logger.Debug("Saved theme %s for %s", name, user)
	return s.info(path, User, user)
}

// Delete removes a user theme.
func (s *Store) Delete(user, name string) error {
	path, err := s.Path(User, user, name)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(path); err != nil {
		return notFound(path, err)
	}
	s.Invalidate(path)

	logger.Debug("Deleted theme %s for %s", name, user)
	return nil
}

// Invalidate drops the cached tree of path.
func (s *Store) Invalidate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, path)
}

func (s *Store) defaultDir() string {
	return filepath.Join(s.dir, "themes", string(Default))
}

func (s *Store) userDir(user string) string {
	return filepath.Join(s.dir, "uploads", user)
}

func (s *Store) list(dir string, source Source, owner string) ([]Info, error) {
	themes := []Info{}
	if !s.fs.Exists(dir) {
		return themes, nil
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), Extension)
		if (source == Default && !validBundledName(slug)) || (source == User && !ValidName(slug)) {
			logger.Warn("Skipping theme %s: unaddressable name", entry.Name())
			continue
		}
		info, err := s.info(filepath.Join(dir, entry.Name()), source, owner)
		if err != nil {
			logger.Warn("Skipping theme %s: %v", entry.Name(), err)
			continue
		}
		themes = append(themes, info)
	}
	return themes, nil
}

func (s *Store) info(path string, source Source, owner string) (Info, error) {
	doc, err := s.document(path)
	if err != nil {
		return Info{}, err
	}
	stat, err := s.fs.Stat(path)
	if err != nil {
		return Info{}, notFound(path, err)
	}

	slug := strings.TrimSuffix(filepath.Base(path), Extension)
	meta := theme.MetadataOf(doc)
	info := Info{
		ID:           ThemeID(source, owner, slug),
		Theme:        slug,
		Name:         meta.Name,
		DisplayName:  meta.Name,
		Description:  meta.Description,
		Version:      meta.Version,
		Author:       meta.Author,
		Source:       source,
		Owner:        owner,
		Modes:        []theme.Mode{},
		HasBothModes: theme.HasBothModes(doc),
		Path:         path,
		UpdatedAt:    stat.ModTime(),
	}
	if info.Name == "" {
		info.Name = slug
		info.DisplayName = TitleFromSlug(slug)
	}
	for _, m := range theme.Modes {
		if theme.HasColors(doc, m) {
			info.Modes = append(info.Modes, m)
		}
	}
	return info, nil
}

func (s *Store) document(path string) (*document.Document, error) {
	stat, err := s.fs.Stat(path)
	if err != nil {
		return nil, notFound(path, err)
	}

	s.mu.RLock()
	entry, ok := s.cache[path]
	s.mu.RUnlock()
	if ok && entry.modTime.Equal(stat.ModTime()) && entry.size == stat.Size() {
		return entry.doc, nil
	}

	// Concurrent misses on one path share a single read and parse.
	v, err, _ := s.loads.Do(path, func() (any, error) {
		content, err := s.fs.ReadFile(path)
		if err != nil {
			return nil, notFound(path, err)
		}
		doc := parser.Parse(string(content))

		s.mu.Lock()
		s.cache[path] = cacheEntry{modTime: stat.ModTime(), size: stat.Size(), doc: doc}
		s.mu.Unlock()
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*document.Document), nil
}

// TitleFromSlug turns a file name like "solar-flare" into "Solar Flare".
func TitleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func looksLikeTheme(content []byte) bool {
	return bytes.ContainsRune(content, '[') && bytes.ContainsRune(content, ']')
}

func notFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return fmt.Errorf("failed to read %s: %w", path, err)
}
