/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package theme_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/vigil/document"
	"bennypowers.dev/vigil/parser"
	"bennypowers.dev/vigil/testutil"
	"bennypowers.dev/vigil/theme"
)

func loadTheme(t *testing.T, name string) *document.Document {
	t.Helper()
	return parser.Parse(string(testutil.LoadFixtureFile(t, "fixtures/themes/"+name)))
}

func TestProject_Dark(t *testing.T) {
	doc := loadTheme(t, "midnight.toml")

	vars := theme.Project(doc, theme.Dark)

	assert.Equal(t, []string{
		"--color-background",
		"--color-surface",
		"--color-text",
		"--color-accent",
		"--color-border",
		"--font-family",
		"--font-size-base",
		"--font-weight-bold",
		"--radius-sm",
		"--radius-md",
		"--shadow-card",
		"--transition-fast",
	}, vars.Names())

	accent, ok := vars.Get("--color-accent")
	require.True(t, ok)
	assert.Equal(t, "#14b8a6", accent)

	weight, _ := vars.Get("--font-weight-bold")
	assert.Equal(t, "700", weight)
}

func TestProject_Light(t *testing.T) {
	doc := loadTheme(t, "midnight.toml")

	vars := theme.Project(doc, theme.Light)

	accent, ok := vars.Get("--color-accent")
	require.True(t, ok)
	assert.Equal(t, "#0d9488", accent)

	bg, _ := vars.Get("--color-background")
	assert.Equal(t, "#f8fafc", bg)
}

func TestProject_NeverProjectsSpacing(t *testing.T) {
	doc := loadTheme(t, "midnight.toml")

	for _, mode := range theme.Modes {
		for _, v := range theme.Project(doc, mode) {
			assert.NotContains(t, v.Name, "spacing", "mode %s", mode)
			assert.NotEqual(t, "0.5rem", v.Value, "spacing value leaked into %s", v.Name)
		}
	}
}

func TestProject_MissingModeContributesNoColors(t *testing.T) {
	doc := loadTheme(t, "dusk.toml")

	vars := theme.Project(doc, theme.Dark)

	for _, name := range vars.Names() {
		assert.False(t, strings.HasPrefix(name, "--color-"), "unexpected %s", name)
	}
	family, ok := vars.Get("--font-family")
	require.True(t, ok)
	assert.Equal(t, "Georgia, serif", family)
}

func TestProject_EmptyDocument(t *testing.T) {
	vars := theme.Project(document.New(), theme.Dark)
	assert.NotNil(t, vars)
	assert.Empty(t, vars)

	data, err := json.Marshal(vars)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestProject_BooleansAndNestedSections(t *testing.T) {
	doc := parser.Parse(strings.Join([]string{
		"[dark.colors]",
		"enabled = true",
		"[dark.colors.nested]",
		"skip = \"me\"",
		"[shared.transitions]",
		"reduced = false",
	}, "\n"))

	vars := theme.Project(doc, theme.Dark)

	assert.Equal(t, theme.Variables{
		{Name: "--color-enabled", Value: "true"},
		{Name: "--transition-reduced", Value: "false"},
	}, vars)
}

func TestProject_SharedScalarIsIgnored(t *testing.T) {
	doc := parser.Parse("shared = \"flat\"\n[dark.colors]\nbg = \"#000\"")

	vars := theme.Project(doc, theme.Dark)

	assert.Equal(t, []string{"--color-bg"}, vars.Names())
}

func TestVariables_MarshalJSONKeepsOrder(t *testing.T) {
	vars := theme.Variables{
		{Name: "--color-z", Value: "1"},
		{Name: "--color-a", Value: "2"},
	}

	data, err := json.Marshal(vars)
	require.NoError(t, err)
	assert.Equal(t, `{"--color-z":"1","--color-a":"2"}`, string(data))
	assert.Equal(t, map[string]string{"--color-z": "1", "--color-a": "2"}, vars.Map())
}

func TestFromDocument(t *testing.T) {
	doc := loadTheme(t, "midnight.toml")

	th := theme.FromDocument(doc)

	assert.Equal(t, theme.Metadata{
		Name:        "Midnight",
		Description: "Deep blue dashboard with a teal accent",
		Version:     "1.2.0",
		Author:      "vigilance-team",
	}, th.Metadata)
	assert.Len(t, th.Colors[theme.Dark], 5)
	assert.Len(t, th.Colors[theme.Light], 5)
	assert.Equal(t, []theme.Entry{
		{Key: "sm", Value: "0.5rem"},
		{Key: "md", Value: "1rem"},
		{Key: "lg", Value: "2rem"},
	}, th.Spacing)
	assert.Equal(t, []theme.Entry{{Key: "fast", Value: "150ms ease-in-out"}}, th.Transitions)
}

func TestFromDocument_Empty(t *testing.T) {
	th := theme.FromDocument(document.New())

	assert.Equal(t, theme.Metadata{}, th.Metadata)
	assert.Empty(t, th.Colors)
	assert.Nil(t, th.Typography)
}
