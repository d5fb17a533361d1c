/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package render provides shared rendering functions for CLI output.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bennypowers.dev/vigil/convert/formatter"
	"bennypowers.dev/vigil/theme"
)

// Row holds computed display values for a single variable.
type Row struct {
	Name    string // CSS variable name with prefix
	Group   string // Namespace of the variable, e.g. "color" or "radius"
	Value   string // Projected value
	IsColor bool   // Whether the value parses as a CSS color
}

// ComputeRows transforms projected variables into display rows.
func ComputeRows(vars theme.Variables, prefix string) []Row {
	rows := make([]Row, 0, len(vars))
	for _, v := range vars {
		row := Row{
			Name:  formatter.ApplyPrefix(v.Name, prefix),
			Group: GroupOf(v.Name),
			Value: v.Value,
		}
		if _, err := csscolorparser.Parse(v.Value); err == nil {
			row.IsColor = true
		}
		rows = append(rows, row)
	}
	return rows
}

// GroupOf returns the namespace of an unprefixed variable name.
// e.g., "--color-accent" → "color"
func GroupOf(name string) string {
	bare := strings.TrimPrefix(name, "--")
	group, _, _ := strings.Cut(bare, "-")
	return group
}

// ColumnWidths calculates the max width needed for each column.
func ColumnWidths(rows []Row) (name, val int) {
	name, val = 4, 5 // minimums for headers
	for _, r := range rows {
		name = max(name, len(r.Name))
		val = max(val, len(r.Value))
	}
	return
}

// ColorSwatch returns a 24-bit ANSI color block for the given color value.
func ColorSwatch(value string) string {
	c, err := csscolorparser.Parse(value)
	if err != nil {
		return ""
	}
	r, g, b, _ := c.RGBA255()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m ", r, g, b)
}

// Table renders rows as aligned columns, with a swatch before colors when
// swatches is set.
func Table(w io.Writer, rows []Row, swatches bool) error {
	if len(rows) == 0 {
		return nil
	}
	nameW, _ := ColumnWidths(rows)
	for _, r := range rows {
		swatch := ""
		if swatches && r.IsColor {
			swatch = ColorSwatch(r.Value)
		}
		if _, err := fmt.Fprintf(w, "%-*s  %s%s\n", nameW, r.Name, swatch, r.Value); err != nil {
			return err
		}
	}
	return nil
}

// Markdown renders rows as markdown tables grouped by namespace, in order
// of first occurrence.
func Markdown(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	var order []string
	byGroup := make(map[string][]Row)
	for _, r := range rows {
		if _, exists := byGroup[r.Group]; !exists {
			order = append(order, r.Group)
		}
		byGroup[r.Group] = append(byGroup[r.Group], r)
	}

	var sb strings.Builder
	for i, group := range order {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n", toTitleCase(group))

		nameW, valW := ColumnWidths(byGroup[group])
		fmt.Fprintf(&sb, "| %-*s | %-*s |\n", nameW, "Name", valW, "Value")
		fmt.Fprintf(&sb, "|-%s-|-%s-|\n", strings.Repeat("-", nameW), strings.Repeat("-", valW))
		for _, r := range byGroup[group] {
			fmt.Fprintf(&sb, "| %-*s | %-*s |\n", nameW, r.Name, valW, r.Value)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Names renders just the variable names, one per line.
func Names(w io.Writer, rows []Row) error {
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, r.Name); err != nil {
			return err
		}
	}
	return nil
}

// toTitleCase converts a string to Title Case.
func toTitleCase(s string) string {
	caser := cases.Title(language.English)
	return caser.String(s)
}
