/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package snippets renders projected variables as editor snippets that
// expand to var() references.
package snippets

import (
	"bytes"
	"encoding/json"
	"encoding/xml"

	"bennypowers.dev/vigil/convert/formatter"
	"bennypowers.dev/vigil/theme"
)

// Type represents the snippet output format.
type Type string

const (
	// TypeVSCode outputs VSCode/JSON snippets format.
	TypeVSCode Type = "vscode"

	// TypeTextMate outputs TextMate/plist snippets format.
	TypeTextMate Type = "textmate"

	// TypeZed outputs Zed editor snippets format.
	TypeZed Type = "zed"
)

// scope lists the VSCode languages the snippets apply to.
const scope = "css,scss,less"

// Snippet represents a VSCode snippet entry.
type Snippet struct {
	Scope       string   `json:"scope"`
	Prefix      []string `json:"prefix"`
	Body        []string `json:"body"`
	Description string   `json:"description,omitempty"`
}

// ZedSnippet represents a Zed editor snippet entry.
// Zed uses a single prefix string and no scope field.
type ZedSnippet struct {
	Prefix      string   `json:"prefix,omitempty"`
	Body        []string `json:"body"`
	Description string   `json:"description,omitempty"`
}

// Formatter outputs editor snippets.
type Formatter struct {
	typ Type
}

// New creates a new snippets formatter. An empty typ means TypeVSCode.
func New(typ Type) *Formatter {
	if typ == "" {
		typ = TypeVSCode
	}
	return &Formatter{typ: typ}
}

// Format renders one snippet per variable. When opts.Alternate holds a
// different value for a variable, the description names both modes.
func (f *Formatter) Format(vars theme.Variables, opts formatter.Options) ([]byte, error) {
	switch f.typ {
	case TypeTextMate:
		return formatTextMate(vars, opts)
	case TypeZed:
		out := make(map[string]ZedSnippet, len(vars))
		for _, v := range vars {
			name := formatter.BareName(v.Name, opts.Prefix)
			out[name] = ZedSnippet{
				Prefix:      name,
				Body:        []string{reference(name)},
				Description: describe(v, opts),
			}
		}
		return marshal(out)
	default:
		out := make(map[string]Snippet, len(vars))
		for _, v := range vars {
			name := formatter.BareName(v.Name, opts.Prefix)
			out[name] = Snippet{
				Scope:       scope,
				Prefix:      []string{name, "--" + name},
				Body:        []string{reference(name)},
				Description: describe(v, opts),
			}
		}
		return marshal(out)
	}
}

func reference(name string) string {
	return "var(--" + name + ")"
}

func describe(v theme.Variable, opts formatter.Options) string {
	alt, ok := opts.Alternate.Get(v.Name)
	if !ok || alt == v.Value || opts.Mode == "" {
		return v.Value
	}
	return string(opts.Mode) + ": " + v.Value + ", " + string(opts.Mode.Other()) + ": " + alt
}

func marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func formatTextMate(vars theme.Variables, opts formatter.Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<array>
`)
	for _, v := range vars {
		name := formatter.BareName(v.Name, opts.Prefix)
		entries := [][2]string{
			{"name", name},
			{"tabTrigger", name},
			{"content", reference(name)},
			{"scope", "source.css, source.scss"},
		}
		buf.WriteString("  <dict>\n")
		for _, kv := range entries {
			buf.WriteString("    <key>" + kv[0] + "</key>\n    <string>")
			if err := xml.EscapeText(&buf, []byte(kv[1])); err != nil {
				return nil, err
			}
			buf.WriteString("</string>\n")
		}
		buf.WriteString("  </dict>\n")
	}
	buf.WriteString("</array>\n</plist>\n")
	return buf.Bytes(), nil
}
