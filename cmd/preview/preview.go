/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package preview provides the preview command for vigil.
package preview

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"bennypowers.dev/vigil/internal/cli"
	"bennypowers.dev/vigil/internal/logger"
	"bennypowers.dev/vigil/load"
	"bennypowers.dev/vigil/theme"
	"bennypowers.dev/vigil/validator"
)

// Cmd is the preview cobra command.
var Cmd = &cobra.Command{
	Use:   "preview <file|url>",
	Short: "Render a theme's palette in the terminal",
	Long: `Render a theme's color palette and a sample card using its
background, surface, text, accent and border colors.

Use --both to show the dark and light palettes side by side.
Colors are drawn in 24-bit when the terminal supports it.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("both", false, "Show both modes side by side")
}

func run(cmd *cobra.Command, args []string) error {
	both, _ := cmd.Flags().GetBool("both")

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

	modes := []theme.Mode{th.Mode}
	if both && th.HasBothModes {
		modes = theme.Modes
	}
	return write(cmd.OutOrStdout(), th, modes)
}

func write(w io.Writer, th *load.Theme, modes []theme.Mode) error {
	r := lipgloss.NewRenderer(w)
	view := theme.FromDocument(th.Document)
	cards := make([]string, 0, len(modes))
	for _, m := range modes {
		cards = append(cards, Card(r, view, m))
	}
	_, err := fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(cards)...))
	return err
}

func joinWithGap(cards []string) []string {
	out := make([]string, 0, 2*len(cards))
	for i, c := range cards {
		if i > 0 {
			out = append(out, "   ")
		}
		out = append(out, c)
	}
	return out
}

// palette holds the colors a card is drawn with.
type palette struct {
	background lipgloss.TerminalColor
	surface    lipgloss.TerminalColor
	text       lipgloss.TerminalColor
	accent     lipgloss.TerminalColor
	border     lipgloss.TerminalColor
}

func paletteOf(colors []theme.Entry) palette {
	byKey := make(map[string]lipgloss.TerminalColor, len(colors))
	for _, e := range colors {
		byKey[e.Key] = terminalColor(e.Value)
	}
	pick := func(keys ...string) lipgloss.TerminalColor {
		for _, k := range keys {
			if c, ok := byKey[k]; ok {
				return c
			}
		}
		return lipgloss.NoColor{}
	}
	return palette{
		background: pick("background", "bg"),
		surface:    pick("surface", "background", "bg"),
		text:       pick("text", "foreground", "fg"),
		accent:     pick("accent", "primary"),
		border:     pick("border", "accent", "primary"),
	}
}

// terminalColor converts a CSS color to a terminal color. Alpha is dropped;
// unparseable values draw nothing.
func terminalColor(value string) lipgloss.TerminalColor {
	c, err := validator.ParseColor(value)
	if err != nil {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(c.Hex())
}

// Card renders the palette of mode plus a sample surface.
func Card(r *lipgloss.Renderer, th theme.Theme, mode theme.Mode) string {
	colors := th.Colors[mode]
	p := paletteOf(colors)

	name := th.Metadata.Name
	if name == "" {
		name = "Untitled"
	}
	title := r.NewStyle().Bold(true).Foreground(p.accent).
		Render(fmt.Sprintf("%s (%s)", name, mode))

	keyWidth := 0
	for _, e := range colors {
		keyWidth = max(keyWidth, len(e.Key))
	}
	swatch := r.NewStyle().Width(4)
	rows := make([]string, 0, len(colors))
	for _, e := range colors {
		rows = append(rows, fmt.Sprintf("%s %-*s  %s",
			swatch.Background(terminalColor(e.Value)).Render(""), keyWidth, e.Key, e.Value))
	}

	family := "inherit"
	for _, e := range th.Typography {
		if e.Key == "family" {
			family = e.Value
		}
	}
	sample := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		BorderBackground(p.background).
		Background(p.surface).
		Foreground(p.text).
		Padding(0, 1).
		Render(strings.Join([]string{
			r.NewStyle().Bold(true).Foreground(p.accent).Background(p.surface).Render("Services"),
			"All systems nominal",
			"font: " + family,
			fmt.Sprintf("%d radii, %d shadows, %d transitions",
				len(th.BorderRadius), len(th.Shadows), len(th.Transitions)),
		}, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		strings.Join(rows, "\n"),
		"",
		sample,
	)
}
