/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package theme

import (
	"errors"
	"fmt"
	"strings"

	"bennypowers.dev/vigil/document"
)

// ErrNoColors is returned when a theme defines no color palette at all.
var ErrNoColors = errors.New("theme has no color definitions")

// Mode selects which color palette is projected.
type Mode string

const (
	// Dark selects [dark.colors].
	Dark Mode = "dark"
	// Light selects [light.colors].
	Light Mode = "light"
)

// Modes lists every mode in preference order.
var Modes = []Mode{Dark, Light}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark":
		return Dark, nil
	case "light":
		return Light, nil
	default:
		return "", fmt.Errorf("invalid mode %q: expected dark or light", s)
	}
}

// Other returns the opposite mode.
func (m Mode) Other() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// String returns the mode name.
func (m Mode) String() string {
	return string(m)
}

// HasColors reports whether doc has a [<mode>.colors] section. An empty
// section counts.
func HasColors(doc *document.Document, mode Mode) bool {
	return doc.Sub(string(mode), SectionColors) != nil
}

// HasBothModes reports whether doc defines both palettes, so callers can
// offer a mode toggle.
func HasBothModes(doc *document.Document) bool {
	return HasColors(doc, Dark) && HasColors(doc, Light)
}

// ResolveMode returns requested when doc has its palette, otherwise the other
// mode when that one exists. It fails with ErrNoColors when neither does.
func ResolveMode(doc *document.Document, requested Mode) (Mode, error) {
	if HasColors(doc, requested) {
		return requested, nil
	}
	if HasColors(doc, requested.Other()) {
		return requested.Other(), nil
	}
	return "", ErrNoColors
}

// PreferredMode picks dark when available, then light.
func PreferredMode(doc *document.Document) (Mode, error) {
	return ResolveMode(doc, Dark)
}
