/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package testutil loads testdata fixtures for package tests.
package testutil

import (
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bennypowers.dev/vigil/internal/mapfs"
)

var updateGolden = flag.Bool("update", false, "update golden files with actual output")

// candidates lists where rel may live relative to a package directory.
func candidates(rel string) []string {
	return []string{
		filepath.Join("testdata", rel),
		filepath.Join("..", "testdata", rel),
		filepath.Join("..", "..", "testdata", rel),
	}
}

// FixturePath returns the on-disk path of a fixture file or directory.
func FixturePath(t *testing.T, rel string) string {
	t.Helper()
	for _, p := range candidates(rel) {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	t.Fatalf("Could not find fixture %s (tried all paths)", rel)
	return ""
}

// NewFixtureFS loads a fixture directory into an in-memory filesystem
// rooted at rootPath.
func NewFixtureFS(t *testing.T, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()

	mfs := mapfs.New()
	err := walkFixtures(FixturePath(t, fixtureDir), func(rel string, content []byte) error {
		mfs.AddFile(filepath.ToSlash(filepath.Join(rootPath, rel)), string(content), 0644)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to load fixtures from %s: %v", fixtureDir, err)
	}
	return mfs
}

// CopyFixtureDir copies a fixture directory into a fresh temporary directory
// and returns its path, for tests that need a real filesystem.
func CopyFixtureDir(t *testing.T, fixtureDir string) string {
	t.Helper()

	dir := t.TempDir()
	err := walkFixtures(FixturePath(t, fixtureDir), func(rel string, content []byte) error {
		dest := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		return os.WriteFile(dest, content, 0644)
	})
	if err != nil {
		t.Fatalf("Failed to copy fixtures from %s: %v", fixtureDir, err)
	}
	return dir
}

func walkFixtures(root string, visit func(rel string, content []byte) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		return visit(rel, content)
	})
}

// LoadFixtureFile reads a single fixture file and returns its content.
func LoadFixtureFile(t *testing.T, fixturePath string) []byte {
	t.Helper()
	content, err := os.ReadFile(FixturePath(t, fixturePath))
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", fixturePath, err)
	}
	return content
}

// AssertGolden compares actual with the golden file, rewriting the golden
// file first when -update is set.
func AssertGolden(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()
	if *updateGolden {
		writeGolden(t, goldenPath, actual)
	}
	want := LoadFixtureFile(t, goldenPath)
	if diff := cmp.Diff(string(want), string(actual)); diff != "" {
		t.Errorf("%s mismatch (-want +got):\n%s", goldenPath, diff)
	}
}

func writeGolden(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()

	paths := candidates(goldenPath)
	target := paths[0]
	for _, p := range paths {
		if _, err := os.Stat(filepath.Dir(p)); err == nil {
			target = p
			break
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatalf("Failed to create directory for golden file %s: %v", goldenPath, err)
	}
	if err := os.WriteFile(target, actual, 0644); err != nil {
		t.Fatalf("Failed to write golden file %s: %v", goldenPath, err)
	}
	t.Logf("Updated golden file: %s", target)
}
