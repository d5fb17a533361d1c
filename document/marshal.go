/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package document

import (
	"strconv"
	"strings"
)

// Marshal serializes a document back to the line-oriented theme format.
//
// Scalars of a section are written right after its header, followed by its
// nested sections. Strings are always quoted so they never read back as
// booleans. Sections that hold only nested sections get no header of their
// own; the nested headers recreate them.
func Marshal(doc *Document) []byte {
	var sb strings.Builder
	writeScalars(&sb, doc)
	for key, v := range doc.All() {
		if sec, ok := v.AsSection(); ok {
			writeSection(&sb, []string{key}, sec)
		}
	}
	return []byte(sb.String())
}

func writeSection(sb *strings.Builder, path []string, sec *Section) {
	hasScalars := false
	for _, v := range sec.All() {
		if v.IsScalar() {
			hasScalars = true
			break
		}
	}

	if hasScalars || sec.Len() == 0 {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("[")
		sb.WriteString(strings.Join(path, "."))
		sb.WriteString("]\n")
		writeScalars(sb, sec)
	}

	for key, v := range sec.All() {
		child, ok := v.AsSection()
		if !ok {
			continue
		}
		childPath := make([]string, len(path)+1)
		copy(childPath, path)
		childPath[len(path)] = key
		writeSection(sb, childPath, child)
	}
}

func writeScalars(sb *strings.Builder, sec *Section) {
	for key, v := range sec.All() {
		switch v.Kind() {
		case KindString:
			s, _ := v.AsString()
			sb.WriteString(key)
			sb.WriteString(" = \"")
			sb.WriteString(s)
			sb.WriteString("\"\n")
		case KindBool:
			b, _ := v.AsBool()
			sb.WriteString(key)
			sb.WriteString(" = ")
			sb.WriteString(strconv.FormatBool(b))
			sb.WriteByte('\n')
		}
	}
}
