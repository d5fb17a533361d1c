/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for vigil.
package cmd

import (
	"github.com/spf13/cobra"

	"bennypowers.dev/vigil/cmd/convert"
	"bennypowers.dev/vigil/cmd/list"
	"bennypowers.dev/vigil/cmd/preview"
	"bennypowers.dev/vigil/cmd/search"
	"bennypowers.dev/vigil/cmd/serve"
	"bennypowers.dev/vigil/cmd/validate"
	"bennypowers.dev/vigil/cmd/vars"
	"bennypowers.dev/vigil/cmd/version"
	"bennypowers.dev/vigil/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "vigil",
	Short: "Parse dashboard themes and project them onto CSS variables",
	Long: `vigil reads home-lab dashboard themes, small INI/TOML-like files with
dark and light palettes plus shared typography, radius, shadow and
transition groups, and projects them onto CSS custom properties.

It can also serve a theme store over HTTP with live change notifications.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cli.AddPersistentFlags(rootCmd)

	rootCmd.AddCommand(vars.Cmd)
	rootCmd.AddCommand(convert.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(search.Cmd)
	rootCmd.AddCommand(list.Cmd)
	rootCmd.AddCommand(preview.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
