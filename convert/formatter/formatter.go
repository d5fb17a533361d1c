/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package formatter provides the interface and common utilities for
// variable formatters.
package formatter

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"bennypowers.dev/vigil/theme"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format renders projected variables in the target format.
	Format(vars theme.Variables, opts Options) ([]byte, error)
}

// Options configures formatter behavior.
type Options struct {
	// Prefix is inserted after the leading "--" of every name.
	Prefix string

	// Mode is the mode vars were projected for.
	Mode theme.Mode

	// Alternate holds the projection for the other mode, when the theme
	// defines both. Formatters that can express a second palette use it.
	Alternate theme.Variables

	// Header is written as a comment at the top of the output.
	Header string
}

// CommentStyle selects how FormatHeader wraps lines.
type CommentStyle int

const (
	// CStyleComments wraps multi-line headers in /* */ and single lines in //.
	CStyleComments CommentStyle = iota
	// SCSSComments prefixes every line with //.
	SCSSComments
	// BlockComments always uses /* */, for plain CSS.
	BlockComments
)

// FormatHeader renders header as a comment followed by a blank line.
// An empty header renders as nothing.
func FormatHeader(header string, style CommentStyle) string {
	header = strings.TrimRight(header, "\n")
	if header == "" {
		return ""
	}
	lines := strings.Split(header, "\n")

	var sb strings.Builder
	switch {
	case style == SCSSComments || (style == CStyleComments && len(lines) == 1):
		for _, line := range lines {
			sb.WriteString(strings.TrimRight("// "+line, " "))
			sb.WriteByte('\n')
		}
	case len(lines) == 1:
		sb.WriteString("/* " + lines[0] + " */\n")
	default:
		sb.WriteString("/*\n")
		for _, line := range lines {
			sb.WriteString(strings.TrimRight(" * "+line, " "))
			sb.WriteByte('\n')
		}
		sb.WriteString(" */\n")
	}
	sb.WriteByte('\n')
	return sb.String()
}

// ApplyPrefix inserts prefix into a custom property name:
// "--color-bg" with prefix "vg" becomes "--vg-color-bg".
func ApplyPrefix(name, prefix string) string {
	if prefix == "" {
		return name
	}
	return "--" + prefix + "-" + strings.TrimPrefix(name, "--")
}

// BareName returns name without the leading "--", prefix applied.
func BareName(name, prefix string) string {
	return strings.TrimPrefix(ApplyPrefix(name, prefix), "--")
}

// AlternateOnly returns the variables of alt whose value differs from, or
// is missing in, primary. Shared groups are identical in both modes and
// drop out.
func AlternateOnly(primary, alt theme.Variables) theme.Variables {
	var out theme.Variables
	for _, v := range alt {
		if pv, ok := primary.Get(v.Name); ok && pv == v.Value {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	words := SplitIntoWords(s)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.ToLower(words[0]))
	for _, word := range words[1:] {
		r, size := utf8.DecodeRuneInString(word)
		sb.WriteRune(unicode.ToUpper(r))
		sb.WriteString(strings.ToLower(word[size:]))
	}
	return sb.String()
}

// IsIdentifier reports whether s can be used as a bare JavaScript binding
// name. Only ASCII identifiers are accepted, and reserved words are not.
func IsIdentifier(s string) bool {
	if s == "" || reservedWords[s] {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

var reservedWords = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true,
	"new": true, "null": true, "package": true, "private": true,
	"protected": true, "public": true, "return": true, "static": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true,
}

// ToKebabCase converts a string to kebab-case.
func ToKebabCase(s string) string {
	return strings.ToLower(strings.Join(SplitIntoWords(s), "-"))
}

// SplitIntoWords splits a string on hyphens, underscores, dots, spaces and
// camelCase boundaries.
func SplitIntoWords(s string) []string {
	var words []string
	var current strings.Builder

	for i, r := range s {
		switch {
		case r == '-' || r == '_' || r == '.' || r == ' ':
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		case unicode.IsUpper(r) && i > 0:
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}
