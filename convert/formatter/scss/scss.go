/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package scss renders projected variables as SCSS variables.
package scss

import (
	"strings"

	"bennypowers.dev/vigil/convert/formatter"
	"bennypowers.dev/vigil/theme"
)

// Formatter outputs SCSS variables with kebab-case names.
type Formatter struct{}

// New creates a new SCSS formatter.
func New() *Formatter {
	return &Formatter{}
}

// Format renders each variable as `$name: value;`.
func (f *Formatter) Format(vars theme.Variables, opts formatter.Options) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(formatter.FormatHeader(opts.Header, formatter.SCSSComments))
	for _, v := range vars {
		sb.WriteString("$")
		sb.WriteString(formatter.BareName(v.Name, opts.Prefix))
		sb.WriteString(": ")
		sb.WriteString(v.Value)
		sb.WriteString(";\n")
	}
	return []byte(sb.String()), nil
}
