/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package flatjson renders projected variables as a flat JSON object.
package flatjson

import (
	"bytes"
	"encoding/json"

	"bennypowers.dev/vigil/convert/formatter"
	"bennypowers.dev/vigil/theme"
)

// Formatter outputs a flat, ordered JSON object of custom properties.
type Formatter struct{}

// New creates a new flat JSON formatter.
func New() *Formatter {
	return &Formatter{}
}

// Format renders vars keyed by their full custom property names. JSON has
// no comments, so the header is dropped.
func (f *Formatter) Format(vars theme.Variables, opts formatter.Options) ([]byte, error) {
	prefixed := make(theme.Variables, len(vars))
	for i, v := range vars {
		prefixed[i] = theme.Variable{Name: formatter.ApplyPrefix(v.Name, opts.Prefix), Value: v.Value}
	}

	compact, err := json.Marshal(prefixed)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
