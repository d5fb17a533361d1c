/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package document provides the nested key/value tree produced by parsing
// theme configuration files.
package document

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"
	"strings"
)

// Section is an ordered mapping from keys to values.
// Keys are kept in first-insertion order.
type Section struct {
	keys    []string
	entries map[string]Value
}

// Document is the root section of a parsed configuration file.
type Document = Section

// New creates an empty section.
func New() *Section {
	return &Section{entries: make(map[string]Value)}
}

// Conflict records a write that replaced a value of a different kind,
// e.g. a section header extending a path that held a scalar.
type Conflict struct {
	// Path is the full path of the replaced value.
	Path []string
	// Existing is the kind that was replaced.
	Existing Kind
	// Incoming is the kind that replaced it.
	Incoming Kind
}

// DotPath returns the dot-separated conflict path.
func (c Conflict) DotPath() string {
	return strings.Join(c.Path, ".")
}

// Len returns the number of keys in the section.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the keys in insertion order.
func (s *Section) Keys() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.keys)
}

// All iterates over entries in insertion order.
func (s *Section) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if s == nil {
			return
		}
		for _, k := range s.keys {
			if !yield(k, s.entries[k]) {
				return
			}
		}
	}
}

// Get returns the value stored directly under key.
func (s *Section) Get(key string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s.entries[key]
	return v, ok
}

// Set stores v under key. Overwriting an existing key keeps its position.
// It returns the previous value, if any.
func (s *Section) Set(key string, v Value) (Value, bool) {
	prev, had := s.entries[key]
	if !had {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = v
	return prev, had
}

// Lookup walks path from s and returns the value found at its end.
func (s *Section) Lookup(path ...string) (Value, bool) {
	if len(path) == 0 {
		return SectionValue(s), s != nil
	}
	current := s
	for i, key := range path {
		v, ok := current.Get(key)
		if !ok {
			return Value{}, false
		}
		if i == len(path)-1 {
			return v, true
		}
		next, ok := v.AsSection()
		if !ok {
			return Value{}, false
		}
		current = next
	}
	return Value{}, false
}

// Sub returns the section at path, or nil when the path is missing or
// ends at a scalar.
func (s *Section) Sub(path ...string) *Section {
	v, ok := s.Lookup(path...)
	if !ok {
		return nil
	}
	sec, _ := v.AsSection()
	return sec
}

// EnsureSection creates empty sections along path as needed and returns the
// innermost one. Scalars found along the way are replaced by sections and
// reported as conflicts.
func (s *Section) EnsureSection(path []string) (*Section, []Conflict) {
	var conflicts []Conflict
	current := s
	for i, key := range path {
		v, ok := current.Get(key)
		if ok {
			if sec, isSection := v.AsSection(); isSection {
				current = sec
				continue
			}
			conflicts = append(conflicts, Conflict{
				Path:     slices.Clone(path[:i+1]),
				Existing: v.Kind(),
				Incoming: KindSection,
			})
		}
		next := New()
		current.Set(key, SectionValue(next))
		current = next
	}
	return current, conflicts
}

// SetPath stores v at path, creating intermediate sections. The last write
// wins; every replacement of a value by one of a different kind is reported.
func (s *Section) SetPath(path []string, v Value) []Conflict {
	if len(path) == 0 {
		return nil
	}
	parent, conflicts := s.EnsureSection(path[:len(path)-1])
	key := path[len(path)-1]
	prev, had := parent.Set(key, v)
	if had && (prev.Kind() == KindSection) != (v.Kind() == KindSection) {
		conflicts = append(conflicts, Conflict{
			Path:     slices.Clone(path),
			Existing: prev.Kind(),
			Incoming: v.Kind(),
		})
	}
	return conflicts
}

// Equal reports whether both sections hold equal values under the same keys.
// Key order is not significant.
func (s *Section) Equal(o *Section) bool {
	if s.Len() != o.Len() {
		return false
	}
	for k, v := range s.All() {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// ToMap converts the section to plain Go maps (map[string]any with string,
// bool and nested map values).
func (s *Section) ToMap() map[string]any {
	out := make(map[string]any, s.Len())
	for k, v := range s.All() {
		switch v.Kind() {
		case KindString:
			out[k], _ = v.AsString()
		case KindBool:
			out[k], _ = v.AsBool()
		case KindSection:
			sec, _ := v.AsSection()
			out[k] = sec.ToMap()
		}
	}
	return out
}

// MarshalJSON encodes the section as a JSON object in key insertion order.
func (s *Section) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for k, v := range s.All() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes scalars as JSON strings/booleans and sections as objects.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.boolean)
	case KindSection:
		return v.section.MarshalJSON()
	default:
		return []byte("null"), nil
	}
}
