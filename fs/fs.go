/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package fs provides the filesystem abstraction used by the theme store,
// the config loader and the CLI.
package fs

import (
	"io/fs"
	"os"
	"path"

	"github.com/google/renameio/v2"
)

// FileSystem provides an abstraction over filesystem operations.
type FileSystem interface {
	// File operations
	WriteFile(name string, data []byte, perm fs.FileMode) error
	ReadFile(name string) ([]byte, error)
	Remove(name string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// File system queries
	Stat(name string) (fs.FileInfo, error)
	Exists(path string) bool

	// fs.FS compatibility - allows use with fs.WalkDir and doublestar
	Open(name string) (fs.File, error)
}

// OSFileSystem implements FileSystem on the host filesystem.
type OSFileSystem struct{}

// NewOSFileSystem creates a new filesystem backed by the os package.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// WriteFile atomically replaces name with data. Readers never observe a
// partially written theme.
func (f *OSFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return renameio.WriteFile(name, data, perm)
}

// ReadFile reads the entire contents of a file.
func (f *OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Remove deletes the named file or empty directory.
func (f *OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}

// MkdirAll creates a directory path and all parents that do not exist.
func (f *OSFileSystem) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Stat returns file information for the named file.
func (f *OSFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Exists returns true if the path exists.
func (f *OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadDir reads the named directory and returns its entries.
func (f *OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// Open opens the named file for reading.
func (f *OSFileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// Sub returns an fs.FS rooted at dir. Names passed to it are slash-separated
// and relative, as io/fs requires, so it can be handed to glob matchers.
func Sub(filesystem FileSystem, dir string) fs.FS {
	return &subFS{filesystem: filesystem, dir: dir}
}

type subFS struct {
	filesystem FileSystem
	dir        string
}

func (s *subFS) resolve(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return path.Join(s.dir, name), nil
}

func (s *subFS) Open(name string) (fs.File, error) {
	full, err := s.resolve("open", name)
	if err != nil {
		return nil, err
	}
	return s.filesystem.Open(full)
}

func (s *subFS) ReadDir(name string) ([]fs.DirEntry, error) {
	full, err := s.resolve("readdir", name)
	if err != nil {
		return nil, err
	}
	return s.filesystem.ReadDir(full)
}

func (s *subFS) Stat(name string) (fs.FileInfo, error) {
	full, err := s.resolve("stat", name)
	if err != nil {
		return nil, err
	}
	return s.filesystem.Stat(full)
}
