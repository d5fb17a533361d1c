/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package css renders projected variables as a CSS rule of custom
// properties.
package css

import (
	"strings"

	"bennypowers.dev/vigil/convert/formatter"
	"bennypowers.dev/vigil/theme"
)

// Common selectors.
const (
	SelectorRoot = ":root"
	SelectorHost = ":host"
)

// Options configures the CSS formatter.
type Options struct {
	// Selector receives the declarations. Defaults to :root.
	Selector string

	// ColorScheme wraps the alternate palette in a prefers-color-scheme
	// media query. Without it, Options.Alternate is ignored.
	ColorScheme bool
}

// Formatter outputs CSS custom properties.
type Formatter struct {
	opts Options
}

// New creates a CSS formatter targeting :root.
func New() *Formatter {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a CSS formatter with the given options.
func NewWithOptions(opts Options) *Formatter {
	if opts.Selector == "" {
		opts.Selector = SelectorRoot
	}
	return &Formatter{opts: opts}
}

// Format renders vars as one rule, followed by a media query for the
// alternate mode when enabled.
func (f *Formatter) Format(vars theme.Variables, opts formatter.Options) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(formatter.FormatHeader(opts.Header, formatter.BlockComments))
	writeRule(&sb, f.opts.Selector, vars, opts.Prefix, "")

	if f.opts.ColorScheme && opts.Mode != "" {
		alt := formatter.AlternateOnly(vars, opts.Alternate)
		if len(alt) > 0 {
			sb.WriteString("\n@media (prefers-color-scheme: ")
			sb.WriteString(string(opts.Mode.Other()))
			sb.WriteString(") {\n")
			writeRule(&sb, f.opts.Selector, alt, opts.Prefix, "  ")
			sb.WriteString("}\n")
		}
	}
	return []byte(sb.String()), nil
}

func writeRule(sb *strings.Builder, selector string, vars theme.Variables, prefix, indent string) {
	sb.WriteString(indent)
	sb.WriteString(selector)
	sb.WriteString(" {\n")
	for _, v := range vars {
		sb.WriteString(indent)
		sb.WriteString("  ")
		sb.WriteString(formatter.ApplyPrefix(v.Name, prefix))
		sb.WriteString(": ")
		sb.WriteString(v.Value)
		sb.WriteString(";\n")
	}
	sb.WriteString(indent)
	sb.WriteString("}\n")
}
