/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package snippets_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/vigil/convert/formatter"
	"bennypowers.dev/vigil/convert/formatter/snippets"
	"bennypowers.dev/vigil/theme"
)

var vars = theme.Variables{
	{Name: "--color-accent", Value: "#14b8a6"},
	{Name: "--radius-sm", Value: "4px"},
}

func TestFormat_VSCode(t *testing.T) {
	data, err := snippets.New("").Format(vars, formatter.Options{Prefix: "vg"})
	require.NoError(t, err)

	var got map[string]snippets.Snippet
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)

	accent := got["vg-color-accent"]
	assert.Equal(t, []string{"var(--vg-color-accent)"}, accent.Body)
	assert.Equal(t, []string{"vg-color-accent", "--vg-color-accent"}, accent.Prefix)
	assert.Equal(t, "#14b8a6", accent.Description)
	assert.Equal(t, "css,scss,less", accent.Scope)
}

func TestFormat_DescribesBothModes(t *testing.T) {
	data, err := snippets.New(snippets.TypeZed).Format(vars, formatter.Options{
		Mode: theme.Dark,
		Alternate: theme.Variables{
			{Name: "--color-accent", Value: "#0d9488"},
			{Name: "--radius-sm", Value: "4px"},
		},
	})
	require.NoError(t, err)

	var got map[string]snippets.ZedSnippet
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "dark: #14b8a6, light: #0d9488", got["color-accent"].Description)
	assert.Equal(t, "4px", got["radius-sm"].Description, "identical values describe one mode")
	assert.Equal(t, "color-accent", got["color-accent"].Prefix)
}

func TestFormat_TextMate(t *testing.T) {
	data, err := snippets.New(snippets.TypeTextMate).Format(theme.Variables{
		{Name: "--font-family", Value: "Inter"},
	}, formatter.Options{})
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<string>var(--font-family)</string>")
	assert.Contains(t, out, "<string>source.css, source.scss</string>")
	assert.True(t, strings.HasSuffix(out, "</plist>\n"))
}
