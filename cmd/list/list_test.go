/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package list

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/vigil/store"
	"bennypowers.dev/vigil/testutil"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testutil.NewFixtureFS(t, "fixtures/store", "/data"), "/data")
}

func TestCollect(t *testing.T) {
	st := newStore(t)

	defaults, err := collect(st, "")
	require.NoError(t, err)
	assert.Len(t, defaults, 2)

	all, err := collect(st, "alice")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "dusk", all[2].Theme)
	assert.Equal(t, "alice", all[2].Owner)

	_, err = collect(st, "../etc")
	assert.ErrorIs(t, err, store.ErrInvalidName)
}

func TestWrite_Table(t *testing.T) {
	themes, err := collect(newStore(t), "alice")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, write(&buf, themes, "table"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "midnight  Midnight"), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "dark,light"), lines[0])
	assert.Contains(t, lines[2], "user/alice")
}

func TestWrite_JSON(t *testing.T) {
	themes, err := collect(newStore(t), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, write(&buf, themes, "json"))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "midnight", decoded[0]["theme"])
	assert.Equal(t, "default", decoded[0]["source"])
	assert.Equal(t, true, decoded[0]["has_both_modes"])
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, write(&buf, nil, "xml"))
}
