/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validator checks theme files for structural problems, unusable
// color values and poor text contrast.
package validator

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"bennypowers.dev/vigil/document"
	"bennypowers.dev/vigil/parser"
	"bennypowers.dev/vigil/theme"
)

// Severity grades a ValidationError.
type Severity string

const (
	// SeverityError marks content that is dropped or misread.
	SeverityError Severity = "error"
	// SeverityWarning marks content that parses but is probably a mistake.
	SeverityWarning Severity = "warning"
)

// ValidationError represents one problem found in a theme file.
type ValidationError struct {
	// FilePath is the path to the file containing the error.
	FilePath string `json:"filePath,omitempty"`
	// Line is the 1-based line number, when known.
	Line int `json:"line,omitempty"`
	// Path is the dotted document path of the problematic element.
	Path string `json:"path,omitempty"`
	// Message describes what's wrong.
	Message string `json:"message"`
	// Suggestion provides an actionable fix.
	Suggestion string `json:"suggestion,omitempty"`
	// Severity is error or warning.
	Severity Severity `json:"severity"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.FilePath != "" {
		sb.WriteString(e.FilePath)
		if e.Line > 0 {
			sb.WriteString(":")
			sb.WriteString(strconv.Itoa(e.Line))
		}
		sb.WriteString(": ")
	} else if e.Line > 0 {
		fmt.Fprintf(&sb, "line %d: ", e.Line)
	}
	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// MinContrast is the WCAG AA ratio required between text and background.
const MinContrast = 4.5

var (
	knownTopLevel = []string{theme.SectionMetadata, string(theme.Dark), string(theme.Light), theme.SectionShared}
	knownGroups   = []string{
		theme.GroupSpacing,
		theme.GroupTypography,
		theme.GroupBorderRadius,
		theme.GroupShadows,
		theme.GroupTransitions,
	}
)

// Validate checks theme content.
func Validate(content []byte) []ValidationError {
	return ValidateWithPath(content, "")
}

// ValidateWithPath checks theme content and includes filePath in errors.
func ValidateWithPath(content []byte, filePath string) []ValidationError {
	text := string(content)
	var errs []ValidationError

	for _, d := range parser.Diagnose(text) {
		severity := SeverityError
		if d.Kind == parser.EmptySegment {
			severity = SeverityWarning
		}
		errs = append(errs, ValidationError{
			FilePath: filePath,
			Line:     d.Line,
			Message:  d.Message,
			Severity: severity,
		})
	}

	doc := parser.Parse(text)
	errs = append(errs, validateShape(doc, filePath)...)
	for _, mode := range theme.Modes {
		errs = append(errs, validateColors(doc, mode, filePath)...)
	}

	if err := CheckTOML(content); err != nil {
		err.FilePath = filePath
		errs = append(errs, *err)
	}
	return errs
}

// HasErrors reports whether any entry has error severity.
func HasErrors(errs []ValidationError) bool {
	return slices.ContainsFunc(errs, func(e ValidationError) bool {
		return e.Severity == SeverityError
	})
}

// CheckTOML reports whether content is also valid TOML. Themes are read by
// a lenient parser, but other tools may insist on the real grammar.
func CheckTOML(content []byte) *ValidationError {
	var discard map[string]any
	_, err := toml.Decode(string(content), &discard)
	if err == nil {
		return nil
	}

	verr := &ValidationError{
		Message:    "not valid TOML",
		Suggestion: "other TOML tools will reject this file",
		Severity:   SeverityWarning,
	}
	var perr toml.ParseError
	if errors.As(err, &perr) {
		verr.Line = perr.Position.Line
		verr.Message = "not valid TOML: " + perr.Message
	} else {
		verr.Message = "not valid TOML: " + err.Error()
	}
	return verr
}

func validateShape(doc *document.Document, filePath string) []ValidationError {
	var errs []ValidationError
	add := func(path, msg, suggestion string, severity Severity) {
		errs = append(errs, ValidationError{
			FilePath:   filePath,
			Path:       path,
			Message:    msg,
			Suggestion: suggestion,
			Severity:   severity,
		})
	}

	for key, v := range doc.All() {
		if !slices.Contains(knownTopLevel, key) {
			add(key, "unknown top-level key", "expected one of "+strings.Join(knownTopLevel, ", "), SeverityWarning)
			continue
		}
		if !v.IsScalar() {
			continue
		}
		add(key, fmt.Sprintf("expected a section, found %s", v.Kind()), "use a ["+key+"] header", SeverityError)
	}

	meta := doc.Sub(theme.SectionMetadata)
	if meta == nil {
		add(theme.SectionMetadata, "missing [metadata] section", "add a name so the theme can be listed", SeverityWarning)
	} else {
		if _, ok := meta.Get("name"); !ok {
			add("metadata.name", "missing theme name", "the file name is used instead", SeverityWarning)
		}
		for key, v := range meta.All() {
			if v.Kind() != document.KindString {
				add("metadata."+key, fmt.Sprintf("expected a string, found %s", v.Kind()), `quote the value, e.g. "1.0.0"`, SeverityWarning)
			}
		}
	}

	for _, mode := range theme.Modes {
		colors, ok := doc.Lookup(string(mode), theme.SectionColors)
		if ok && colors.IsScalar() {
			add(string(mode)+"."+theme.SectionColors, "expected a section", "", SeverityError)
		}
	}
	if !theme.HasColors(doc, theme.Dark) && !theme.HasColors(doc, theme.Light) {
		add("", theme.ErrNoColors.Error(), "add a [dark.colors] or [light.colors] section", SeverityError)
	}

	for key, v := range doc.Sub(theme.SectionShared).All() {
		path := theme.SectionShared + "." + key
		switch {
		case !slices.Contains(knownGroups, key):
			add(path, "unknown shared group is never projected", "expected one of "+strings.Join(knownGroups, ", "), SeverityWarning)
		case v.IsScalar():
			add(path, "expected a section", "use a ["+path+"] header", SeverityError)
		}
	}
	return errs
}

func validateColors(doc *document.Document, mode theme.Mode, filePath string) []ValidationError {
	colors := doc.Sub(string(mode), theme.SectionColors)
	if colors == nil {
		return nil
	}

	var errs []ValidationError
	prefix := string(mode) + "." + theme.SectionColors + "."
	for key, v := range colors.All() {
		if !v.IsScalar() {
			errs = append(errs, ValidationError{
				FilePath: filePath,
				Path:     prefix + key,
				Message:  "nested sections inside colors are not projected",
				Severity: SeverityWarning,
			})
			continue
		}
		if _, err := ParseColor(v.Text()); err != nil {
			errs = append(errs, ValidationError{
				FilePath:   filePath,
				Path:       prefix + key,
				Message:    fmt.Sprintf("%q is not a recognized CSS color", v.Text()),
				Suggestion: "use hex, rgb(), hsl() or a named color",
				Severity:   SeverityWarning,
			})
		}
	}

	text, okText := colors.Get("text")
	background, okBackground := colors.Get("background")
	if !okText || !okBackground {
		return errs
	}
	ratio, err := ContrastRatio(text.Text(), background.Text())
	if err != nil {
		return errs
	}
	if ratio < MinContrast {
		errs = append(errs, ValidationError{
			FilePath:   filePath,
			Path:       prefix + "text",
			Message:    fmt.Sprintf("text/background contrast is %.2f:1, below %.1f:1", ratio, MinContrast),
			Suggestion: "darken or lighten the text color",
			Severity:   SeverityWarning,
		})
	}
	return errs
}
