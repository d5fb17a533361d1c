/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package js renders projected variables as a JavaScript or TypeScript
// module.
package js

import (
	"encoding/json"
	"strings"

	"bennypowers.dev/vigil/convert/formatter"
	"bennypowers.dev/vigil/theme"
)

// Module specifies the JavaScript module system.
type Module string

const (
	// ModuleESM uses ES Modules (default).
	ModuleESM Module = "esm"
	// ModuleCJS uses CommonJS.
	ModuleCJS Module = "cjs"
)

// Types specifies the type annotation system.
type Types string

const (
	// TypesTS uses TypeScript annotations (default).
	TypesTS Types = "ts"
	// TypesJSDoc uses JSDoc annotations.
	TypesJSDoc Types = "jsdoc"
)

// Options configures the JS formatter.
type Options struct {
	Module Module
	Types  Types
}

// Formatter outputs one constant per variable plus a `variables` record
// keyed by custom property name. Names that do not camelCase into a valid
// identifier get no constant but still appear in the record.
type Formatter struct {
	opts Options
}

// New creates a JS formatter emitting a TypeScript ES module.
func New() *Formatter {
	return NewWithOptions(Options{})
}

// NewWithOptions creates a JS formatter with the specified options.
func NewWithOptions(opts Options) *Formatter {
	if opts.Module == "" {
		opts.Module = ModuleESM
	}
	if opts.Types == "" {
		opts.Types = TypesTS
	}
	return &Formatter{opts: opts}
}

// Format renders vars as a module.
func (f *Formatter) Format(vars theme.Variables, opts formatter.Options) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString(formatter.FormatHeader(opts.Header, formatter.CStyleComments))

	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		ident := formatter.ToCamelCase(formatter.BareName(v.Name, opts.Prefix))
		if !formatter.IsIdentifier(ident) || seen[ident] || ident == "variables" {
			continue
		}
		seen[ident] = true

		value, err := json.Marshal(v.Value)
		if err != nil {
			return nil, err
		}
		f.writeExport(&sb, ident, string(value), "string")
	}

	record, err := f.record(vars, opts.Prefix)
	if err != nil {
		return nil, err
	}
	if len(vars) > 0 {
		sb.WriteByte('\n')
	}
	f.writeExport(&sb, "variables", record, "Record<string, string>")
	return []byte(sb.String()), nil
}

func (f *Formatter) writeExport(sb *strings.Builder, ident, value, typ string) {
	if f.opts.Types == TypesJSDoc {
		sb.WriteString("/** @type {" + typ + "} */\n")
	}
	if f.opts.Module == ModuleCJS {
		sb.WriteString("exports." + ident + " = " + value + ";\n")
		return
	}
	sb.WriteString("export const " + ident)
	if f.opts.Types == TypesTS && typ != "string" {
		sb.WriteString(": " + typ)
	}
	sb.WriteString(" = " + value + ";\n")
}

func (f *Formatter) record(vars theme.Variables, prefix string) (string, error) {
	if len(vars) == 0 {
		return "{}", nil
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, v := range vars {
		key, err := json.Marshal(formatter.ApplyPrefix(v.Name, prefix))
		if err != nil {
			return "", err
		}
		value, err := json.Marshal(v.Value)
		if err != nil {
			return "", err
		}
		sb.WriteString("  " + string(key) + ": " + string(value) + ",\n")
	}
	sb.WriteString("}")
	return sb.String(), nil
}

// Extension returns the file extension for the configured options.
func (f *Formatter) Extension() string {
	switch {
	case f.opts.Module == ModuleCJS && f.opts.Types == TypesTS:
		return ".cts"
	case f.opts.Module == ModuleCJS:
		return ".cjs"
	case f.opts.Types == TypesJSDoc:
		return ".js"
	default:
		return ".ts"
	}
}
