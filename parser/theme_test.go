/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bennypowers.dev/vigil/document"
	"bennypowers.dev/vigil/parser"
	"bennypowers.dev/vigil/testutil"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "single section",
			input: "[a]\nk = \"v\"",
			want:  map[string]any{"a": map[string]any{"k": "v"}},
		},
		{
			name:  "dotted header nests",
			input: "[a.b]\nk = \"1\"",
			want:  map[string]any{"a": map[string]any{"b": map[string]any{"k": "1"}}},
		},
		{
			name:  "booleans and quoted booleans",
			input: "on = true\noff = false\nquoted = \"true\"",
			want:  map[string]any{"on": true, "off": false, "quoted": "true"},
		},
		{
			name:  "bare values stay strings",
			input: "size = 16\nweight = 700.5\nfamily = Inter",
			want:  map[string]any{"size": "16", "weight": "700.5", "family": "Inter"},
		},
		{
			name:  "split on first equals only",
			input: "url = https://example.com/?a=b&c=d",
			want:  map[string]any{"url": "https://example.com/?a=b&c=d"},
		},
		{
			name:  "inline hash is part of the value",
			input: "accent = #ff0000 # red",
			want:  map[string]any{"accent": "#ff0000 # red"},
		},
		{
			name:  "quoted interior is verbatim",
			input: `k = " spaced \n "`,
			want:  map[string]any{"k": ` spaced \n `},
		},
		{
			name:  "lone quote is not a quoted string",
			input: `k = "`,
			want:  map[string]any{"k": `"`},
		},
		{
			name:  "root assignment before any header",
			input: `k = "v"`,
			want:  map[string]any{"k": "v"},
		},
		{
			name:  "headers are absolute",
			input: "[a.b]\nx = \"1\"\n[c]\ny = \"2\"",
			want: map[string]any{
				"a": map[string]any{"b": map[string]any{"x": "1"}},
				"c": map[string]any{"y": "2"},
			},
		},
		{
			name:  "empty header segment is a key",
			input: "[]\nk = \"v\"\n[a..b]\nx = \"y\"",
			want: map[string]any{
				"":  map[string]any{"k": "v"},
				"a": map[string]any{"": map[string]any{"b": map[string]any{"x": "y"}}},
			},
		},
		{
			name:  "header without assignments creates empty section",
			input: "[metadata]",
			want:  map[string]any{"metadata": map[string]any{}},
		},
		{
			name:  "windows line endings",
			input: "[a]\r\nk = \"v\"\r\n",
			want:  map[string]any{"a": map[string]any{"k": "v"}},
		},
		{
			name:  "unrecognized lines are skipped",
			input: "[unclosed\njust words\nk = \"v\"",
			want:  map[string]any{"k": "v"},
		},
		{
			name:  "comments and blanks only",
			input: "# a comment\n\n   \n\t# another\n",
			want:  map[string]any{},
		},
		{
			name:  "empty input",
			input: "",
			want:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.input).ToMap()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_ConflictLastWriteWins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "section header replaces scalar",
			input: "a = \"x\"\n[a]\nk = \"v\"",
			want:  map[string]any{"a": map[string]any{"k": "v"}},
		},
		{
			name:  "scalar replaces section",
			input: "[a.b]\nx = \"1\"\n[a]\nb = \"flat\"",
			want:  map[string]any{"a": map[string]any{"b": "flat"}},
		},
		{
			name:  "deeper header replaces nested scalar",
			input: "[a]\nk = \"v\"\n[b]\n[a.k.deep]\n",
			want: map[string]any{
				"a": map[string]any{"k": map[string]any{"deep": map[string]any{}}},
				"b": map[string]any{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.input).ToMap()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_KeepsInsertionOrder(t *testing.T) {
	doc := parser.Parse("[dark.colors]\nzeta = \"1\"\nalpha = \"2\"\nmid = \"3\"")
	got := doc.Sub("dark", "colors").Keys()
	want := []string{"zeta", "alpha", "mid"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
}

func TestDiagnose_Malformed(t *testing.T) {
	data := testutil.LoadFixtureFile(t, "fixtures/themes/malformed.toml")

	diags := parser.Diagnose(string(data))

	type lineKind struct {
		Line int
		Kind parser.DiagnosticKind
	}
	got := make([]lineKind, len(diags))
	for i, d := range diags {
		got[i] = lineKind{d.Line, d.Kind}
	}
	want := []lineKind{
		{1, parser.UnclosedHeader},
		{3, parser.UnrecognizedLine},
		{4, parser.EmptyKey},
		{6, parser.EmptySegment},
		{12, parser.Conflict},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diagnose() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiagnose_CleanThemeHasNone(t *testing.T) {
	data := testutil.LoadFixtureFile(t, "fixtures/themes/midnight.toml")
	if diags := parser.Diagnose(string(data)); len(diags) != 0 {
		t.Errorf("expected no diagnostics, got %v", diags)
	}
}

func TestThemeParser_ParseFile(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/test")

	p := parser.NewThemeParser()
	doc, err := p.ParseFile(mfs, "/test/midnight.toml", parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, _ := doc.Lookup("metadata", "name")
	if name.Text() != "Midnight" {
		t.Errorf("expected name 'Midnight', got %q", name.Text())
	}

	weight, _ := doc.Lookup("shared", "typography", "weight-bold")
	if s, ok := weight.AsString(); !ok || s != "700" {
		t.Errorf("expected bare 700 to stay the string \"700\", got %v", weight)
	}
}

func TestThemeParser_StrictRejectsMalformed(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/test")

	p := parser.NewThemeParser()
	doc, err := p.ParseFile(mfs, "/test/malformed.toml", parser.Options{Strict: true})
	if err == nil {
		t.Fatal("expected strict parsing to fail")
	}
	if doc != nil {
		t.Error("expected no document on strict failure")
	}

	var perr *parser.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *parser.Error, got %T", err)
	}
	if len(perr.Diagnostics) != 5 {
		t.Errorf("expected 5 diagnostics, got %d: %v", len(perr.Diagnostics), perr.Diagnostics)
	}
}

func TestThemeParser_LenientNeverFails(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/test")

	p := parser.NewThemeParser()
	doc, err := p.ParseFile(mfs, "/test/malformed.toml", parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	family, ok := doc.Lookup("shared", "typography", "family")
	if !ok || family.Text() != "Inter" {
		t.Errorf("expected shared.typography.family = Inter, got %q", family.Text())
	}
	orphan, ok := doc.Lookup("")
	if !ok || orphan.Text() != "orphan" {
		t.Errorf("expected empty key to hold \"orphan\", got %q", orphan.Text())
	}
}

func TestThemeParser_MissingFile(t *testing.T) {
	mfs := testutil.NewFixtureFS(t, "fixtures/themes", "/test")

	_, err := parser.NewThemeParser().ParseFile(mfs, "/test/nope.toml", parser.Options{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	inputs := map[string]string{
		"midnight":      string(testutil.LoadFixtureFile(t, "fixtures/themes/midnight.toml")),
		"dusk":          string(testutil.LoadFixtureFile(t, "fixtures/themes/dusk.toml")),
		"root scalars":  "a = \"1\"\nflag = true\n[s]\nx = \"2\"",
		"empty section": "[a]\n[b.c]\nk = false",
		"quoted bools":  "t = \"true\"\nf = \"false\"",
		"nested mixed":  "[a]\nk = \"v\"\n[a.b]\nj = \"w\"\n[a.b.c]\n[d]\nq = \"\"",
		"empty keys":    "= \"root\"\n[a]\n= \"x\"",
		"inner quotes":  `k = ""quoted""`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			original := parser.Parse(input)
			reparsed := parser.Parse(string(document.Marshal(original)))
			if !original.Equal(reparsed) {
				t.Errorf("round trip changed the tree:\noriginal: %v\nreparsed: %v\nserialized:\n%s",
					original.ToMap(), reparsed.ToMap(), document.Marshal(original))
			}
		})
	}
}
