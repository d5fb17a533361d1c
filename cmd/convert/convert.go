/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package convert provides the convert command for vigil.
package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/vigil/config"
	convertlib "bennypowers.dev/vigil/convert"
	"bennypowers.dev/vigil/internal/cli"
	"bennypowers.dev/vigil/internal/logger"
	"bennypowers.dev/vigil/load"
	"bennypowers.dev/vigil/theme"
)

// NamePlaceholder in an output path is replaced by the input's file name
// without extension.
const NamePlaceholder = "{name}"

// DefaultHeader is written at the top of generated files.
const DefaultHeader = "Generated by vigil"

// Cmd is the convert cobra command.
var Cmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Render themes as CSS, SCSS, JSON or JavaScript",
	Long: `Render theme files in one or more output formats.

Output Formats:
  css        CSS rule of custom properties (default)
  json       Flat JSON object
  scss       SCSS variables
  typescript TypeScript ESM module
  js         JavaScript ESM module with JSDoc types
  cjs        CommonJS module

Examples:
  # Print the dark palette as CSS
  vigil convert themes/midnight.toml

  # Scope to a web component and add the light palette behind a media query
  vigil convert --selector :host --color-scheme -o theme.css themes/midnight.toml

  # Multi-output mode: generate several formats at once
  vigil convert --outputs scss:_theme.scss --outputs typescript:theme.ts themes/midnight.toml

  # One file per theme
  vigil convert --outputs "css:dist/{name}.css" themes/*.toml

  # Use files and outputs from config file (.config/vigil.yaml)
  vigil convert`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	Cmd.Flags().StringP("format", "f", "css", "Output format: "+strings.Join(convertlib.ValidFormats(), ", "))
	Cmd.Flags().StringArray("outputs", nil, "Multiple outputs as format:path pairs (repeatable, supports {name} template)")
	Cmd.Flags().Bool("color-scheme", false, "Add the other palette behind a prefers-color-scheme media query (css only)")
	Cmd.Flags().String("header", DefaultHeader, "Comment written at the top of the output (empty for none)")
}

// job renders one input to one destination.
type job struct {
	input  string
	output string // empty writes to the command's output
	spec   config.OutputSpec
}

func run(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	formatFlag, _ := cmd.Flags().GetString("format")
	outputsFlag, _ := cmd.Flags().GetStringArray("outputs")
	colorScheme, _ := cmd.Flags().GetBool("color-scheme")
	header, _ := cmd.Flags().GetString("header")

	if len(outputsFlag) > 0 && output != "" {
		return fmt.Errorf("--outputs and --output are mutually exclusive")
	}
	cliOutputs, err := parseOutputs(outputsFlag)
	if err != nil {
		return err
	}

	env, err := cli.Load(cmd)
	if err != nil {
		return err
	}
	files, err := env.Files(args)
	if err != nil {
		return err
	}
	modeFlag, err := cli.ModeFlag(cmd)
	if err != nil {
		return err
	}

	// CLI outputs take precedence over config outputs; a single -o or
	// stdout is used when neither is given.
	outputs := cliOutputs
	if len(outputs) == 0 && output == "" && !cmd.Flags().Changed("format") {
		outputs = env.Config.Outputs
	}
	if len(outputs) == 0 {
		outputs = []config.OutputSpec{{Format: formatFlag, Path: output}}
	}

	jobs, err := plan(files, outputs)
	if err != nil {
		return err
	}

	c := &converter{
		env:         env,
		out:         cmd.OutOrStdout(),
		modeFlag:    modeFlag,
		colorScheme: colorScheme,
		header:      header,
	}
	return c.runJobs(cmd.Context(), cmd, jobs)
}

func parseOutputs(specs []string) ([]config.OutputSpec, error) {
	var outputs []config.OutputSpec
	for _, spec := range specs {
		formatPart, pathPart, found := strings.Cut(spec, ":")
		if !found || formatPart == "" || pathPart == "" {
			return nil, fmt.Errorf("invalid output spec %q: expected format:path", spec)
		}
		outputs = append(outputs, config.OutputSpec{Format: formatPart, Path: pathPart})
	}
	return outputs, nil
}

// plan pairs every input with every output. With several inputs, a file
// output must contain {name} so the results do not overwrite each other.
func plan(files []string, outputs []config.OutputSpec) ([]job, error) {
	var jobs []job
	for _, out := range outputs {
		if len(files) > 1 && out.Path != "" && !strings.Contains(out.Path, NamePlaceholder) {
			return nil, fmt.Errorf("output %s: %s is required with %d input files", out.Path, NamePlaceholder, len(files))
		}
		for _, file := range files {
			jobs = append(jobs, job{
				input:  file,
				output: strings.ReplaceAll(out.Path, NamePlaceholder, themeName(file)),
				spec:   out,
			})
		}
	}
	return jobs, nil
}

func themeName(file string) string {
	base := file
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type converter struct {
	env         *cli.Env
	out         io.Writer
	modeFlag    theme.Mode
	colorScheme bool
	header      string
}

func (c *converter) runJobs(ctx context.Context, cmd *cobra.Command, jobs []job) error {
	if ctx == nil {
		ctx = context.Background()
	}
	loaded := make(map[string]*load.Theme)
	var failures int
	for _, j := range jobs {
		th, ok := loaded[j.input]
		if !ok {
			opts, err := c.loadOptions(cmd, j.input)
			if err != nil {
				return err
			}
			th, err = load.Load(ctx, j.input, opts)
			if err != nil {
				logger.Error(err, "Error loading %s", j.input)
				failures++
				continue
			}
			if th.Fallback {
				logger.Warn("%s has no %s palette; using %s", j.input, opts.Mode, th.Mode)
			}
			loaded[j.input] = th
		}
		if err := c.render(th, j); err != nil {
			logger.Error(err, "Error converting %s", j.input)
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("failed to convert %d file(s)", failures)
	}
	return nil
}

func (c *converter) loadOptions(cmd *cobra.Command, file string) (load.Options, error) {
	if cmd != nil {
		return c.env.LoadOptions(cmd, file)
	}
	mode, err := c.env.Config.ModeForFile(file)
	if err != nil {
		return load.Options{}, err
	}
	return load.Options{Root: c.env.Root, FS: c.env.FS, Mode: mode, Strict: c.env.Config.Strict}, nil
}

func (c *converter) render(th *load.Theme, j job) error {
	format, err := convertlib.ParseFormat(j.spec.Format)
	if err != nil {
		return err
	}

	mode := c.modeFlag
	if mode == "" && j.spec.Mode != "" {
		if mode, err = c.env.Config.ModeForOutput(j.spec); err != nil {
			return err
		}
	}
	if mode == "" {
		mode = th.Mode
	}

	prefix := j.spec.Prefix
	if prefix == "" {
		prefix = c.env.Config.Prefix
	}

	result, err := convertlib.Render(th.Document, convertlib.Options{
		Format:      format,
		Mode:        mode,
		Prefix:      prefix,
		Selector:    c.env.Config.Selector,
		ColorScheme: c.colorScheme,
		Header:      c.header,
	})
	if err != nil {
		return err
	}
	if result.Fallback {
		logger.Warn("%s has no %s palette; rendering %s", j.input, mode, result.Mode)
	}

	data := result.Data
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	if j.output == "" {
		_, err := c.out.Write(data)
		return err
	}

	path := j.output
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.env.Root, path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := c.env.FS.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}
	if err := c.env.FS.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", j.output, err)
	}
	logger.Info("Wrote %s", j.output)
	return nil
}
