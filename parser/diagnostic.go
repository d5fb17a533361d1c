/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a line the parser could not take at face value.
type DiagnosticKind string

const (
	// UnclosedHeader is a line starting with "[" but not ending with "]".
	UnclosedHeader DiagnosticKind = "unclosed-header"

	// UnrecognizedLine is neither a header, a comment nor an assignment.
	UnrecognizedLine DiagnosticKind = "unrecognized-line"

	// EmptyKey is an assignment with nothing left of "=".
	EmptyKey DiagnosticKind = "empty-key"

	// EmptySegment is a header with an empty path segment, e.g. "[a..b]".
	EmptySegment DiagnosticKind = "empty-segment"

	// Conflict is a path written both as a section and as a scalar.
	Conflict DiagnosticKind = "conflict"
)

// Diagnostic describes one questionable line.
type Diagnostic struct {
	// Line is the 1-based line number.
	Line int `json:"line"`

	// Kind classifies the problem.
	Kind DiagnosticKind `json:"kind"`

	// Message describes the problem.
	Message string `json:"message"`

	// Text is the trimmed source line.
	Text string `json:"text"`
}

// String formats the diagnostic as "line N: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}

// Error is returned by strict parsing. It carries every diagnostic found.
type Error struct {
	Diagnostics []Diagnostic
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].String()
	}
	parts := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		parts[i] = d.String()
	}
	return fmt.Sprintf("%d problems: %s", len(e.Diagnostics), strings.Join(parts, "; "))
}
