package sbgn

import "testing"

func TestResolveReference(t *testing.T) {
	glyphs := []glyph{
		{ID: "P1", Class: "process", Ports: []port{{ID: "P1.1"}, {ID: "eastPort"}}},
		{ID: "G2", Class: "macromolecule"},
	}

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"PortConvention", "P1.1", "P1"},
		{"PortConventionLastDot", "a.b.3", "a.b"},
		{"DirectGlyphMatch", "G2", "G2"},
		{"PortListScan", "eastPort", "P1"},
		{"UnmatchedPassThrough", "X9", "X9"},
		// The dot shortcut is purely syntactic: the derived glyph does not
		// have to exist.
		{"ConventionWithoutGlyph", "Z7.2", "Z7"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveReference(tc.ref, glyphs)
			if got != tc.want {
				t.Fatalf("resolveReference(%q) = %q, want %q", tc.ref, got, tc.want)
			}
		})
	}
}

func TestResolveEndpoints(t *testing.T) {
	glyphs := []glyph{
		{ID: "P1", Ports: []port{{ID: "P1.1"}}},
		{ID: "G2"},
	}

	tests := []struct {
		name       string
		source     string
		target     string
		wantSource string
		wantTarget string
	}{
		{"PortToGlyph", "P1.1", "G2", "P1", "G2"},
		{"EmptySource", "", "G2", "", ""},
		{"EmptyTarget", "G2", "", "", ""},
		{"BothGlyphs", "G2", "P1", "G2", "P1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			source, target := resolveEndpoints(tc.source, tc.target, glyphs)
			if source != tc.wantSource || target != tc.wantTarget {
				t.Fatalf("resolveEndpoints(%q, %q) = (%q, %q), want (%q, %q)",
					tc.source, tc.target, source, target, tc.wantSource, tc.wantTarget)
			}
		})
	}
}
