/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"fmt"
	"slices"
	"strings"

	"bennypowers.dev/vigil/document"
	"bennypowers.dev/vigil/fs"
)

// ThemeParser parses the line-oriented theme format: full-line "#"
// comments, "[dot.path]" section headers and "key = value" assignments.
type ThemeParser struct{}

// NewThemeParser creates a new theme parser.
func NewThemeParser() *ThemeParser {
	return &ThemeParser{}
}

// Parse parses theme data. In lenient mode it never returns an error.
func (p *ThemeParser) Parse(data []byte, opts Options) (*document.Document, error) {
	doc, diags := scan(string(data))
	if opts.Strict && len(diags) > 0 {
		return nil, &Error{Diagnostics: diags}
	}
	return doc, nil
}

// ParseFile reads and parses a theme file.
func (p *ThemeParser) ParseFile(filesystem fs.FileSystem, path string, opts Options) (*document.Document, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	doc, err := p.Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	return doc, nil
}

// Parse parses text leniently. Lines that cannot be classified are skipped
// and path conflicts resolve to the last write.
func Parse(text string) *document.Document {
	doc, _ := scan(text)
	return doc
}

// Diagnose parses text leniently and returns what Parse silently skipped or
// overwrote.
func Diagnose(text string) []Diagnostic {
	_, diags := scan(text)
	return diags
}

func scan(text string) (*document.Document, []Diagnostic) {
	doc := document.New()
	var diags []Diagnostic
	var current []string

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			current = strings.Split(trimmed[1:len(trimmed)-1], ".")
			if slices.Contains(current, "") {
				diags = append(diags, Diagnostic{
					Line:    lineNo,
					Kind:    EmptySegment,
					Message: fmt.Sprintf("section %s has an empty path segment", trimmed),
					Text:    trimmed,
				})
			}
			_, conflicts := doc.EnsureSection(current)
			diags = appendConflicts(diags, lineNo, trimmed, conflicts)
			continue
		}

		key, raw, found := strings.Cut(trimmed, "=")
		if !found {
			kind, msg := UnrecognizedLine, "not a section header or key = value assignment"
			if strings.HasPrefix(trimmed, "[") {
				kind, msg = UnclosedHeader, "section header is missing its closing bracket"
			}
			diags = append(diags, Diagnostic{Line: lineNo, Kind: kind, Message: msg, Text: trimmed})
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			diags = append(diags, Diagnostic{
				Line:    lineNo,
				Kind:    EmptyKey,
				Message: "assignment has an empty key",
				Text:    trimmed,
			})
		}

		path := append(slices.Clip(current), key)
		conflicts := doc.SetPath(path, coerce(strings.TrimSpace(raw)))
		diags = appendConflicts(diags, lineNo, trimmed, conflicts)
	}

	return doc, diags
}

// coerce converts a trimmed raw value: a double-quoted string loses its
// quotes (no escape processing), true/false become booleans, anything else
// stays a verbatim string.
func coerce(raw string) document.Value {
	switch {
	case len(raw) >= 2 && strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`):
		return document.StringValue(raw[1 : len(raw)-1])
	case raw == "true":
		return document.BoolValue(true)
	case raw == "false":
		return document.BoolValue(false)
	default:
		return document.StringValue(raw)
	}
}

func appendConflicts(diags []Diagnostic, lineNo int, text string, conflicts []document.Conflict) []Diagnostic {
	for _, c := range conflicts {
		diags = append(diags, Diagnostic{
			Line:    lineNo,
			Kind:    Conflict,
			Message: fmt.Sprintf("%s replaces %s %q", c.Incoming, c.Existing, c.DotPath()),
			Text:    text,
		})
	}
	return diags
}
