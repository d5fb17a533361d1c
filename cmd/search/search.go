/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package search provides the search command for vigil.
package search

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/vigil/cmd/render"
	"bennypowers.dev/vigil/internal/cli"
	"bennypowers.dev/vigil/internal/logger"
	"bennypowers.dev/vigil/load"
)

// Cmd is the search cobra command.
var Cmd = &cobra.Command{
	Use:   "search <query> [files...]",
	Short: "Search projected variables by name or value",
	Long: `Search the CSS variables themes project, by name, value, or both,
with optional regex support.

With no files, the themes listed in .config/vigil.yaml are searched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("name", false, "Search names only")
	Cmd.Flags().Bool("value", false, "Search values only")
	Cmd.Flags().Bool("regex", false, "Query is a regex")
	Cmd.Flags().String("format", "table", "Output format: table, json, names")
}

// Match is a projected variable that matched the query.
type Match struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Group string `json:"group"`
	File  string `json:"file"`
}

// query selects which variables match.
type query struct {
	text      string
	pattern   *regexp.Regexp
	nameOnly  bool
	valueOnly bool
}

func run(cmd *cobra.Command, args []string) error {
	q := query{text: args[0]}
	q.nameOnly, _ = cmd.Flags().GetBool("name")
	q.valueOnly, _ = cmd.Flags().GetBool("value")
	useRegex, _ := cmd.Flags().GetBool("regex")
	format, _ := cmd.Flags().GetString("format")

	if useRegex {
		pattern, err := regexp.Compile(q.text)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		q.pattern = pattern
	}

	env, err := cli.Load(cmd)
	if err != nil {
		return err
	}
	files, err := env.Files(args[1:])
	if err != nil {
		return err
	}

	var matches []Match
	for _, file := range files {
		opts, err := env.LoadOptions(cmd, file)
		if err != nil {
			return err
		}
		th, err := load.Load(cmd.Context(), file, opts)
		if err != nil {
			logger.Error(err, "skipping %s", file)
			continue
		}
		rows := render.ComputeRows(th.Variables, env.Config.Prefix)
		matches = append(matches, filter(rows, file, q)...)
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return strings.Compare(a.Name, b.Name)
	})
	return write(cmd.OutOrStdout(), matches, format)
}

// filter returns the rows of file that match q.
func filter(rows []render.Row, file string, q query) []Match {
	var matches []Match
	for _, r := range rows {
		var matched bool
		switch {
		case q.nameOnly:
			matched = matchString(r.Name, q.text, q.pattern)
		case q.valueOnly:
			matched = matchString(r.Value, q.text, q.pattern)
		default:
			matched = matchString(r.Name, q.text, q.pattern) ||
				matchString(r.Value, q.text, q.pattern)
		}
		if matched {
			matches = append(matches, Match{Name: r.Name, Value: r.Value, Group: r.Group, File: file})
		}
	}
	return matches
}

func matchString(s, query string, pattern *regexp.Regexp) bool {
	if pattern != nil {
		return pattern.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(query))
}

func write(w io.Writer, matches []Match, format string) error {
	switch format {
	case "json":
		if matches == nil {
			matches = []Match{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	case "names":
		for _, m := range matches {
			fmt.Fprintln(w, m.Name)
		}
		return nil
	case "table", "":
		return writeTable(w, matches)
	default:
		return fmt.Errorf("unknown format %q: expected table, json or names", format)
	}
}

func writeTable(w io.Writer, matches []Match) error {
	rows := make([]render.Row, len(matches))
	for i, m := range matches {
		rows[i] = render.Row{Name: m.Name, Value: m.Value}
	}
	nameWidth, valueWidth := render.ColumnWidths(rows)
	for _, m := range matches {
		if _, err := fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameWidth, m.Name, valueWidth, m.Value, m.File); err != nil {
			return err
		}
	}
	return nil
}
