/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package parser provides theme configuration file parsing.
package parser

import (
	"bennypowers.dev/vigil/document"
	"bennypowers.dev/vigil/fs"
)

// Options configures parsing.
type Options struct {
	// Strict rejects malformed lines and section/scalar conflicts instead of
	// skipping them. The default is lenient.
	Strict bool
}

// Parser parses theme configuration files.
type Parser interface {
	// Parse parses configuration data and returns the document tree.
	Parse(data []byte, opts Options) (*document.Document, error)

	// ParseFile parses a configuration file and returns the document tree.
	ParseFile(filesystem fs.FileSystem, path string, opts Options) (*document.Document, error)
}
