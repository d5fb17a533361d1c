/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package vars provides the vars command for vigil.
package vars

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/vigil/cmd/render"
	"bennypowers.dev/vigil/internal/cli"
	"bennypowers.dev/vigil/internal/logger"
	"bennypowers.dev/vigil/load"
	"bennypowers.dev/vigil/theme"
)

// Cmd is the vars cobra command.
var Cmd = &cobra.Command{
	Use:   "vars <file|url>",
	Short: "Print the CSS variables a theme projects",
	Long: `Parse a theme and print the custom properties projected for a mode.

The mode's color palette comes first, then the shared typography,
border-radius, shadow and transition groups. Spacing is never projected.
When the theme lacks the requested palette, the other one is used.

Examples:
  vigil vars themes/midnight.toml
  vigil vars --mode light --format json themes/midnight.toml
  vigil vars https://example.com/themes/dusk.toml`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "table", "Output format: table, json, markdown, names")
	Cmd.Flags().Bool("swatches", false, "Show color swatches in table output")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	swatches, _ := cmd.Flags().GetBool("swatches")

	env, err := cli.Load(cmd)
	if err != nil {
		return err
	}
	opts, err := env.LoadOptions(cmd, args[0])
	if err != nil {
		return err
	}

	th, err := load.Load(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	if th.Fallback {
		logger.Warn("%s has no %s palette; showing %s", args[0], opts.Mode, th.Mode)
	}
	return write(cmd.OutOrStdout(), th, format, env.Config.Prefix, swatches)
}

// output is the JSON shape of the vars command.
type output struct {
	Source    string          `json:"source"`
	Name      string          `json:"name,omitempty"`
	Mode      theme.Mode      `json:"mode"`
	Fallback  bool            `json:"fallback"`
	Variables theme.Variables `json:"variables"`
}

func write(w io.Writer, th *load.Theme, format, prefix string, swatches bool) error {
	rows := render.ComputeRows(th.Variables, prefix)
	switch format {
	case "json":
		vars := make(theme.Variables, len(rows))
		for i, r := range rows {
			vars[i] = theme.Variable{Name: r.Name, Value: r.Value}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(output{
			Source:    th.Source,
			Name:      th.Metadata.Name,
			Mode:      th.Mode,
			Fallback:  th.Fallback,
			Variables: vars,
		})
	case "markdown", "md":
		return render.Markdown(w, rows)
	case "names":
		return render.Names(w, rows)
	case "table", "":
		return render.Table(w, rows, swatches)
	default:
		return fmt.Errorf("unknown format %q: expected table, json, markdown or names", format)
	}
}
