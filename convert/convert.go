/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package convert resolves a theme's mode, projects it and renders the
// result in one of the output formats.
package convert

import (
	"fmt"

	"bennypowers.dev/vigil/convert/formatter"
	"bennypowers.dev/vigil/document"
	"bennypowers.dev/vigil/theme"
)

// Options configures rendering.
type Options struct {
	// Format is the output format (default FormatCSS).
	Format Format

	// Mode is the requested mode. When the theme lacks that palette the
	// other one is used. Empty means the theme's preferred mode.
	Mode theme.Mode

	// Prefix is inserted into every custom property name.
	Prefix string

	// Selector is the CSS rule receiving the declarations.
	Selector string

	// ColorScheme adds the other mode's palette behind a
	// prefers-color-scheme media query (CSS only).
	ColorScheme bool

	// Header is written as a comment at the top of the output.
	Header string
}

// Result is a rendered theme.
type Result struct {
	// Mode is the mode actually projected.
	Mode theme.Mode
	// Fallback is set when Mode differs from the requested mode.
	Fallback bool
	// Variables is the projection for Mode.
	Variables theme.Variables
	// Data is the formatted output.
	Data []byte
}

// Resolve picks the mode to project and projects it.
func Resolve(doc *document.Document, requested theme.Mode) (theme.Mode, theme.Variables, error) {
	var (
		mode theme.Mode
		err  error
	)
	if requested == "" {
		mode, err = theme.PreferredMode(doc)
	} else {
		mode, err = theme.ResolveMode(doc, requested)
	}
	if err != nil {
		return "", nil, err
	}
	return mode, theme.Project(doc, mode), nil
}

// Render resolves, projects and formats doc.
func Render(doc *document.Document, opts Options) (*Result, error) {
	if opts.Format == "" {
		opts.Format = FormatCSS
	}
	f, err := newFormatter(opts.Format, opts)
	if err != nil {
		return nil, err
	}

	mode, vars, err := Resolve(doc, opts.Mode)
	if err != nil {
		return nil, err
	}

	fmtOpts := formatter.Options{
		Prefix: opts.Prefix,
		Mode:   mode,
		Header: opts.Header,
	}
	if (opts.ColorScheme || opts.Format.describesBothModes()) && theme.HasBothModes(doc) {
		fmtOpts.Alternate = theme.Project(doc, mode.Other())
	}

	data, err := f.Format(vars, fmtOpts)
	if err != nil {
		return nil, fmt.Errorf("error formatting %s: %w", opts.Format, err)
	}

	return &Result{
		Mode:      mode,
		Fallback:  opts.Mode != "" && mode != opts.Mode,
		Variables: vars,
		Data:      data,
	}, nil
}
