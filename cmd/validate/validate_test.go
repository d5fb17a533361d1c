/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package validate

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/vigil/testutil"
)

func TestValidateFiles_Clean(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")

	var out, errOut bytes.Buffer
	err := validateFiles(&out, &errOut, mfs, []string{"/project/midnight.toml", "/project/dusk.toml"}, options{})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Validating /project/midnight.toml...")
	assert.Contains(t, out.String(), "All files valid.")
	assert.Empty(t, errOut.String())
}

func TestValidateFiles_Malformed(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")

	var out, errOut bytes.Buffer
	err := validateFiles(&out, &errOut, mfs, []string{"/project/malformed.toml"}, options{})

	require.ErrorIs(t, err, errFailed)
	assert.Contains(t, errOut.String(), "error: /project/malformed.toml:1: ")
	assert.NotContains(t, out.String(), "All files valid.")
}

func TestValidateFiles_Quiet(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")

	var out, errOut bytes.Buffer
	err := validateFiles(&out, &errOut, mfs, []string{"/project/midnight.toml"}, options{quiet: true})

	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestValidateFiles_FailOnWarnings(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")
	// An empty header segment only warns.
	mfs.AddFile("/project/warn.toml", "[dark.colors]\nbackground = \"#000000\"\ntext = \"#ffffff\"\n[a..b]\n", 0644)

	var out, errOut bytes.Buffer
	files := []string{"/project/warn.toml"}

	require.NoError(t, validateFiles(&out, &errOut, mfs, files, options{}))
	assert.Contains(t, errOut.String(), "warning:")

	out.Reset()
	errOut.Reset()
	err := validateFiles(&out, &errOut, mfs, files, options{failOnWarnings: true})
	assert.ErrorIs(t, err, errFailed)
}

func TestValidateFiles_MissingFile(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/project")

	var out, errOut bytes.Buffer
	err := validateFiles(&out, &errOut, mfs, []string{"/project/nope.toml"}, options{})

	require.ErrorIs(t, err, errFailed)
	assert.True(t, strings.HasPrefix(errOut.String(), "Error reading /project/nope.toml"))
}
