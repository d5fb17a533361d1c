/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validate provides the validate command for vigil.
package validate

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/vigil/fs"
	"bennypowers.dev/vigil/internal/cli"
	"bennypowers.dev/vigil/validator"
)

// errFailed is returned when any file fails validation.
var errFailed = errors.New("validation failed")

// Cmd is the validate cobra command.
var Cmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate theme files",
	Long: `Check theme files for lines the parser skips, unknown sections,
unparseable colors and low text contrast.

With no arguments, the files listed in .config/vigil.yaml are checked.`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("quiet", false, "Only output errors")
	Cmd.Flags().Bool("fail-on-warnings", false, "Treat warnings as errors")
}

// options controls a validation run.
type options struct {
	quiet          bool
	failOnWarnings bool
}

func run(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")
	failOnWarnings, _ := cmd.Flags().GetBool("fail-on-warnings")

	env, err := cli.Load(cmd)
	if err != nil {
		return err
	}
	files, err := env.Files(args)
	if err != nil {
		return err
	}
	return validateFiles(cmd.OutOrStdout(), cmd.ErrOrStderr(), env.FS, files, options{
		quiet:          quiet,
		failOnWarnings: failOnWarnings || env.Config.Strict,
	})
}

func validateFiles(out, errOut io.Writer, filesystem fs.FileSystem, files []string, opts options) error {
	failed := false
	for _, file := range files {
		if !opts.quiet {
			fmt.Fprintf(out, "Validating %s...\n", file)
		}

		data, err := filesystem.ReadFile(file)
		if err != nil {
			fmt.Fprintf(errOut, "Error reading %s: %v\n", file, err)
			failed = true
			continue
		}

		errs := validator.ValidateWithPath(data, file)
		warnings := 0
		for _, e := range errs {
			if e.Severity == validator.SeverityWarning {
				warnings++
				if opts.quiet && !opts.failOnWarnings {
					continue
				}
			}
			fmt.Fprintf(errOut, "  %s: %s\n", e.Severity, e.Error())
		}

		if validator.HasErrors(errs) || (opts.failOnWarnings && warnings > 0) {
			failed = true
			continue
		}
		if !opts.quiet {
			fmt.Fprintf(out, "  ok, %d warning(s)\n", warnings)
		}
	}

	if failed {
		return errFailed
	}
	if !opts.quiet {
		fmt.Fprintln(out, "All files valid.")
	}
	return nil
}
