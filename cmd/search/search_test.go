/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package search

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"bennypowers.dev/vigil/cmd/render"
	"bennypowers.dev/vigil/theme"
)

func TestMatchString(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		query    string
		pattern  *regexp.Regexp
		expected bool
	}{
		{"simple match", "--color-accent", "accent", nil, true},
		{"case insensitive", "--Color-Accent", "accent", nil, true},
		{"no match", "--color-accent", "radius", nil, false},
		{"partial match", "--color-accent-strong", "accent", nil, true},
		{"empty query", "--color-accent", "", nil, true},
		{"empty string", "", "query", nil, false},
		{"regex match", "--color-accent", "", regexp.MustCompile(`^--color-`), true},
		{"regex no match", "--radius-sm", "", regexp.MustCompile(`^--color-`), false},
		{"regex pattern", "150ms ease", "", regexp.MustCompile(`\d+ms`), true},
		{"regex case sensitive", "Inter", "", regexp.MustCompile(`inter`), false},
		{"regex case insensitive", "Inter", "", regexp.MustCompile(`(?i)inter`), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchString(tt.s, tt.query, tt.pattern)
			if got != tt.expected {
				t.Errorf("matchString(%q, %q, pattern) = %v, want %v", tt.s, tt.query, got, tt.expected)
			}
		})
	}
}

func testRows() []render.Row {
	return render.ComputeRows(theme.Variables{
		{Name: "--color-background", Value: "#0f172a"},
		{Name: "--color-accent", Value: "#14b8a6"},
		{Name: "--font-family", Value: "Inter, sans-serif"},
		{Name: "--radius-sm", Value: "4px"},
		{Name: "--transition-fast", Value: "150ms"},
	}, "")
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		q        query
		expected []string
	}{
		{"name or value", query{text: "a"}, []string{"--color-background", "--color-accent", "--font-family", "--radius-sm", "--transition-fast"}},
		{"name only", query{text: "color", nameOnly: true}, []string{"--color-background", "--color-accent"}},
		{"value only", query{text: "inter", valueOnly: true}, []string{"--font-family"}},
		{"value only ignores names", query{text: "radius", valueOnly: true}, nil},
		{"regex on values", query{pattern: regexp.MustCompile(`^#[0-9a-f]{6}$`), valueOnly: true}, []string{"--color-background", "--color-accent"}},
		{"no match", query{text: "shadow"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := filter(testRows(), "midnight.toml", tt.q)
			var got []string
			for _, m := range matches {
				got = append(got, m.Name)
				if m.File != "midnight.toml" {
					t.Errorf("expected file midnight.toml, got %q", m.File)
				}
			}
			if strings.Join(got, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("filter() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	matches := filter(testRows(), "midnight.toml", query{text: "color", nameOnly: true})

	var buf bytes.Buffer
	if err := write(&buf, matches, "names"); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "--color-background\n--color-accent\n" {
		t.Errorf("unexpected names output:\n%s", buf.String())
	}

	buf.Reset()
	if err := write(&buf, matches, "table"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "--color-accent      #14b8a6  midnight.toml") {
		t.Errorf("unexpected table output:\n%s", buf.String())
	}

	buf.Reset()
	if err := write(&buf, nil, "json"); err != nil {
		t.Fatal(err)
	}
	var decoded []Match
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded == nil || len(decoded) != 0 {
		t.Errorf("expected an empty JSON array, got %s", buf.String())
	}

	if err := write(&buf, matches, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
