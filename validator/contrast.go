/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package validator

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

// ParseColor parses a CSS color value. Alpha is dropped.
func ParseColor(value string) (colorful.Color, error) {
	c, err := csscolorparser.Parse(value)
	if err != nil {
		return colorful.Color{}, err
	}
	return colorful.Color{R: c.R, G: c.G, B: c.B}, nil
}

// ContrastRatio returns the WCAG 2 contrast ratio between two CSS colors,
// from 1 (identical luminance) to 21 (black on white).
func ContrastRatio(fg, bg string) (float64, error) {
	a, err := ParseColor(fg)
	if err != nil {
		return 0, fmt.Errorf("foreground: %w", err)
	}
	b, err := ParseColor(bg)
	if err != nil {
		return 0, fmt.Errorf("background: %w", err)
	}

	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05), nil
}

func luminance(c colorful.Color) float64 {
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
