/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package convert

import (
	"fmt"
	"strings"

	"bennypowers.dev/vigil/convert/formatter"
	"bennypowers.dev/vigil/convert/formatter/css"
	"bennypowers.dev/vigil/convert/formatter/flatjson"
	"bennypowers.dev/vigil/convert/formatter/js"
	"bennypowers.dev/vigil/convert/formatter/scss"
	"bennypowers.dev/vigil/convert/formatter/snippets"
)

// Format represents an output format for projected variables.
type Format string

const (
	// FormatCSS outputs a CSS rule of custom properties (default).
	FormatCSS Format = "css"

	// FormatFlatJSON outputs a flat JSON object.
	FormatFlatJSON Format = "json"

	// FormatSCSS outputs SCSS variables.
	FormatSCSS Format = "scss"

	// FormatTypeScript outputs a TypeScript ES module.
	FormatTypeScript Format = "typescript"

	// FormatJS outputs a JavaScript ES module with JSDoc types.
	FormatJS Format = "js"

	// FormatCJS outputs a CommonJS module with JSDoc types.
	FormatCJS Format = "cjs"

	// FormatSnippets outputs VSCode snippets expanding to var() references.
	FormatSnippets Format = "snippets"

	// FormatZedSnippets outputs Zed editor snippets.
	FormatZedSnippets Format = "zed-snippets"

	// FormatTextMate outputs TextMate plist snippets.
	FormatTextMate Format = "textmate"
)

// ValidFormats returns all valid format strings.
func ValidFormats() []string {
	return []string{
		string(FormatCSS),
		string(FormatFlatJSON),
		string(FormatSCSS),
		string(FormatTypeScript),
		string(FormatJS),
		string(FormatCJS),
		string(FormatSnippets),
		string(FormatZedSnippets),
		string(FormatTextMate),
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "css", "":
		return FormatCSS, nil
	case "json", "flat", "flat-json":
		return FormatFlatJSON, nil
	case "scss", "sass":
		return FormatSCSS, nil
	case "typescript", "ts":
		return FormatTypeScript, nil
	case "js", "javascript", "esm":
		return FormatJS, nil
	case "cjs", "commonjs":
		return FormatCJS, nil
	case "snippets", "vscode", "vscode-snippets":
		return FormatSnippets, nil
	case "zed", "zed-snippets":
		return FormatZedSnippets, nil
	case "textmate", "tmsnippet":
		return FormatTextMate, nil
	default:
		return "", fmt.Errorf("unknown format: %s (valid: %s)", s, strings.Join(ValidFormats(), ", "))
	}
}

// ContentType returns the MIME type served for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatFlatJSON, FormatSnippets, FormatZedSnippets:
		return "application/json; charset=utf-8"
	case FormatTextMate:
		return "application/xml; charset=utf-8"
	case FormatSCSS:
		return "text/x-scss; charset=utf-8"
	case FormatTypeScript, FormatJS, FormatCJS:
		return "text/javascript; charset=utf-8"
	default:
		return "text/css; charset=utf-8"
	}
}

// newFormatter returns the formatter for format.
func newFormatter(format Format, opts Options) (formatter.Formatter, error) {
	switch format {
	case FormatCSS:
		return css.NewWithOptions(css.Options{
			Selector:    opts.Selector,
			ColorScheme: opts.ColorScheme,
		}), nil
	case FormatFlatJSON:
		return flatjson.New(), nil
	case FormatSCSS:
		return scss.New(), nil
	case FormatTypeScript:
		return js.New(), nil
	case FormatJS:
		return js.NewWithOptions(js.Options{Types: js.TypesJSDoc}), nil
	case FormatCJS:
		return js.NewWithOptions(js.Options{Module: js.ModuleCJS, Types: js.TypesJSDoc}), nil
	case FormatSnippets:
		return snippets.New(snippets.TypeVSCode), nil
	case FormatZedSnippets:
		return snippets.New(snippets.TypeZed), nil
	case FormatTextMate:
		return snippets.New(snippets.TypeTextMate), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// describesBothModes reports whether the format uses the other mode's
// projection even without a color-scheme block.
func (f Format) describesBothModes() bool {
	return f == FormatSnippets || f == FormatZedSnippets
}
