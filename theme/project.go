/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package theme

import (
	"bytes"
	"encoding/json"

	"bennypowers.dev/vigil/document"
)

// Variable is one CSS custom property assignment.
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variables is a flat, ordered mapping from custom property name to value.
type Variables []Variable

// sharedGroups are projected after the mode's colors, in this order.
// Spacing is deliberately absent: themes must not move page layout.
var sharedGroups = []struct {
	key    string
	prefix string
}{
	{GroupTypography, "--font-"},
	{GroupBorderRadius, "--radius-"},
	{GroupShadows, "--shadow-"},
	{GroupTransitions, "--transition-"},
}

// Project maps the palette of mode and the shared typography, border-radius,
// shadow and transition groups onto custom properties. Missing sections
// contribute nothing, and no fallback to the other mode happens here.
func Project(doc *document.Document, mode Mode) Variables {
	vars := Variables{}
	vars = appendGroup(vars, "--color-", doc.Sub(string(mode), SectionColors))
	shared := doc.Sub(SectionShared)
	for _, g := range sharedGroups {
		vars = appendGroup(vars, g.prefix, shared.Sub(g.key))
	}
	return vars
}

func appendGroup(vars Variables, prefix string, group *document.Section) Variables {
	for _, e := range Entries(group) {
		vars = append(vars, Variable{Name: prefix + e.Key, Value: e.Value})
	}
	return vars
}

// Get returns the value of the named property.
func (v Variables) Get(name string) (string, bool) {
	for _, variable := range v {
		if variable.Name == name {
			return variable.Value, true
		}
	}
	return "", false
}

// Names returns property names in order.
func (v Variables) Names() []string {
	names := make([]string, len(v))
	for i, variable := range v {
		names[i] = variable.Name
	}
	return names
}

// Map returns the variables as a plain map.
func (v Variables) Map() map[string]string {
	m := make(map[string]string, len(v))
	for _, variable := range v {
		m[variable.Name] = variable.Value
	}
	return m
}

// MarshalJSON encodes the variables as a JSON object, keeping their order.
func (v Variables) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, variable := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(variable.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(variable.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
