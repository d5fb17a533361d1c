/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package theme projects parsed theme documents onto CSS custom properties
// and handles light/dark mode selection.
package theme

import (
	"bennypowers.dev/vigil/document"
)

// Well-known section and group names of a theme document.
const (
	SectionMetadata = "metadata"
	SectionShared   = "shared"
	SectionColors   = "colors"

	GroupSpacing      = "spacing"
	GroupTypography   = "typography"
	GroupBorderRadius = "border-radius"
	GroupShadows      = "shadows"
	GroupTransitions  = "transitions"
)

// Metadata describes a theme.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Author      string `json:"author"`
}

// Entry is a scalar key/value pair of a token group.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Theme is a typed view of a theme document.
type Theme struct {
	Metadata Metadata

	// Colors holds the palette of each mode present in the document.
	Colors map[Mode][]Entry

	Spacing      []Entry
	Typography   []Entry
	BorderRadius []Entry
	Shadows      []Entry
	Transitions  []Entry
}

// FromDocument builds the typed view of doc. Missing sections yield zero
// values; nothing is validated.
func FromDocument(doc *document.Document) Theme {
	t := Theme{
		Metadata: MetadataOf(doc),
		Colors:   make(map[Mode][]Entry),
	}
	for _, m := range Modes {
		if HasColors(doc, m) {
			t.Colors[m] = Entries(doc.Sub(string(m), SectionColors))
		}
	}
	shared := doc.Sub(SectionShared)
	t.Spacing = Entries(shared.Sub(GroupSpacing))
	t.Typography = Entries(shared.Sub(GroupTypography))
	t.BorderRadius = Entries(shared.Sub(GroupBorderRadius))
	t.Shadows = Entries(shared.Sub(GroupShadows))
	t.Transitions = Entries(shared.Sub(GroupTransitions))
	return t
}

// MetadataOf reads the [metadata] section of doc.
func MetadataOf(doc *document.Document) Metadata {
	meta := doc.Sub(SectionMetadata)
	text := func(key string) string {
		v, _ := meta.Get(key)
		return v.Text()
	}
	return Metadata{
		Name:        text("name"),
		Description: text("description"),
		Version:     text("version"),
		Author:      text("author"),
	}
}

// Entries returns the scalar entries of sec in insertion order.
// Booleans are rendered as "true"/"false"; nested sections are skipped.
func Entries(sec *document.Section) []Entry {
	var entries []Entry
	for key, v := range sec.All() {
		if !v.IsScalar() {
			continue
		}
		entries = append(entries, Entry{Key: key, Value: v.Text()})
	}
	return entries
}
