/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package document

import "strconv"

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindInvalid is the zero Value.
	KindInvalid Kind = iota
	// KindString is a string scalar.
	KindString
	// KindBool is a boolean scalar.
	KindBool
	// KindSection is a nested section.
	KindSection
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindSection:
		return "section"
	default:
		return "invalid"
	}
}

// Value is a node of the document tree: either a scalar (string or boolean)
// or a nested Section.
type Value struct {
	kind    Kind
	str     string
	boolean bool
	section *Section
}

// StringValue wraps a string scalar.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// BoolValue wraps a boolean scalar.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// SectionValue wraps a nested section.
func SectionValue(s *Section) Value {
	if s == nil {
		s = New()
	}
	return Value{kind: KindSection, section: s}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsScalar reports whether v is a string or boolean.
func (v Value) IsScalar() bool {
	return v.kind == KindString || v.kind == KindBool
}

// AsString returns the string scalar, if v holds one.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsBool returns the boolean scalar, if v holds one.
func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

// AsSection returns the nested section, if v holds one.
func (v Value) AsSection() (*Section, bool) {
	return v.section, v.kind == KindSection
}

// Text returns the textual form of a scalar: the string itself, or
// "true"/"false". Sections and invalid values yield "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.boolean)
	default:
		return ""
	}
}

// Equal reports whether two values are structurally equal.
// Key order inside sections is not significant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.boolean == o.boolean
	case KindSection:
		return v.section.Equal(o.section)
	default:
		return true
	}
}
