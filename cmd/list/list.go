/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package list provides the list command for vigil.
package list

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/vigil/internal/cli"
	"bennypowers.dev/vigil/store"
)

// Cmd is the list cobra command.
var Cmd = &cobra.Command{
	Use:   "list",
	Short: "List themes in the theme store",
	Long: `List the default themes of the theme store, and a user's uploads
when --user is given.

The store lives under the configured theme directory:
  themes/default/<name>.toml
  uploads/<user>/<name>.toml`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String("user", "", "Also list this user's uploaded themes")
	Cmd.Flags().String("format", "table", "Output format: table, json")
}

func run(cmd *cobra.Command, args []string) error {
	user, _ := cmd.Flags().GetString("user")
	format, _ := cmd.Flags().GetString("format")

	env, err := cli.Load(cmd)
	if err != nil {
		return err
	}
	st := store.New(env.FS, env.Config.ResolveThemeDir(env.Root))

	themes, err := collect(st, user)
	if err != nil {
		return err
	}
	return write(cmd.OutOrStdout(), themes, format)
}

// collect returns the default themes followed by user's, if any.
func collect(st *store.Store, user string) ([]store.Info, error) {
	themes, err := st.DefaultThemes()
	if err != nil {
		return nil, err
	}
	if user == "" {
		return themes, nil
	}
	uploads, err := st.UserThemes(user)
	if err != nil {
		return nil, err
	}
	return append(themes, uploads...), nil
}

func write(w io.Writer, themes []store.Info, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(themes)
	case "table", "":
		return writeTable(w, themes)
	default:
		return fmt.Errorf("unknown format %q: expected table or json", format)
	}
}

func writeTable(w io.Writer, themes []store.Info) error {
	themeWidth, nameWidth := 5, 4
	for _, t := range themes {
		themeWidth = max(themeWidth, len(t.Theme))
		nameWidth = max(nameWidth, len(t.DisplayName))
	}
	for _, t := range themes {
		source := string(t.Source)
		if t.Owner != "" {
			source += "/" + t.Owner
		}
		modes := make([]string, len(t.Modes))
		for i, m := range t.Modes {
			modes[i] = string(m)
		}
		_, err := fmt.Fprintf(w, "%-*s  %-*s  %-12s  %s\n",
			themeWidth, t.Theme, nameWidth, t.DisplayName, source, strings.Join(modes, ","))
		if err != nil {
			return err
		}
	}
	return nil
}
