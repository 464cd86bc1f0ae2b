package sbgn

import (
	"reflect"
	"testing"
)

func TestNodeFromGlyph(t *testing.T) {
	tests := []struct {
		name     string
		glyph    glyph
		wantOK   bool
		wantType string
		wantProp map[string]any
	}{
		{
			name:   "MissingIDSkipped",
			glyph:  glyph{Class: "macromolecule"},
			wantOK: false,
		},
		{
			name:     "KnownClass",
			glyph:    glyph{ID: "G1", Class: "nucleic acid feature"},
			wantOK:   true,
			wantType: "information macromolecule",
			wantProp: map[string]any{"sbgn_class": "nucleic acid feature", "sbgn_id": "G1"},
		},
		{
			name:     "UnrecognizedClassFallsBack",
			glyph:    glyph{ID: "G1", Class: "submap"},
			wantOK:   true,
			wantType: "biological_entity",
			wantProp: map[string]any{"sbgn_class": "submap", "sbgn_id": "G1"},
		},
		{
			name: "FullProperties",
			glyph: glyph{
				ID:          "G1",
				Class:       "macromolecule",
				Orientation: "vertical",
				Label:       "MAPK",
				BBox:        &bbox{X: 1, Y: 2, W: 3, H: 4},
			},
			wantOK:   true,
			wantType: "macromolecule",
			wantProp: map[string]any{
				"sbgn_class":  "macromolecule",
				"sbgn_id":     "G1",
				"name":        "MAPK",
				"label":       "MAPK",
				"x":           1.0,
				"y":           2.0,
				"width":       3.0,
				"height":      4.0,
				"orientation": "vertical",
			},
		},
		{
			name: "UnitOfInformationInOrder",
			glyph: glyph{
				ID:    "N1",
				Class: "nucleic acid feature",
				Nested: []nestedGlyph{
					{ID: "N1a", Class: "unit of information", Label: "ct:mRNA"},
					{ID: "N1b", Class: "state variable", Label: "ignored"},
					{ID: "N1c", Class: "unit of information", Label: "ct:gene"},
				},
			},
			wantOK:   true,
			wantType: "information macromolecule",
			wantProp: map[string]any{
				"sbgn_class":          "nucleic acid feature",
				"sbgn_id":             "N1",
				"unit_of_information": []string{"ct:mRNA", "ct:gene"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			node, ok := nodeFromGlyph(tc.glyph)
			if ok != tc.wantOK {
				t.Fatalf("nodeFromGlyph() ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if node.ID != tc.glyph.ID {
				t.Errorf("node.ID = %q, want %q", node.ID, tc.glyph.ID)
			}
			if node.Type != tc.wantType {
				t.Errorf("node.Type = %q, want %q", node.Type, tc.wantType)
			}
			if !reflect.DeepEqual(node.Props, tc.wantProp) {
				t.Errorf("node.Props = %#v, want %#v", node.Props, tc.wantProp)
			}
		})
	}
}

func TestEdgeFromArc(t *testing.T) {
	glyphs := []glyph{
		{ID: "P1", Class: "process", Ports: []port{{ID: "P1.1"}}},
		{ID: "G2", Class: "macromolecule"},
	}

	t.Run("FullArc", func(t *testing.T) {
		edge, ok := edgeFromArc(arc{
			ID:     "a1",
			Class:  "catalysis",
			Source: "P1.1",
			Target: "G2",
			Start:  &point{X: 1, Y: 2},
			End:    &point{X: 3, Y: 4},
			Next:   []point{{X: 15, Y: 25}, {X: 30, Y: 40}},
		}, glyphs)
		if !ok {
			t.Fatal("edgeFromArc() dropped a resolvable arc")
		}
		if edge.ID != "a1" || edge.Source != "P1" || edge.Target != "G2" || edge.Type != "catalysis" {
			t.Errorf("edge = %#v, want a1 P1->G2 catalysis", edge)
		}
		wantProps := map[string]any{
			"sbgn_arc_class":      "catalysis",
			"sbgn_arc_id":         "a1",
			"start_x":             1.0,
			"start_y":             2.0,
			"end_x":               3.0,
			"end_y":               4.0,
			"intermediate_points": "15,25|30,40",
		}
		if !reflect.DeepEqual(edge.Props, wantProps) {
			t.Errorf("edge.Props = %#v, want %#v", edge.Props, wantProps)
		}
	})

	t.Run("MissingEndpointDropped", func(t *testing.T) {
		if _, ok := edgeFromArc(arc{ID: "a2", Class: "production", Target: "G2"}, glyphs); ok {
			t.Fatal("edgeFromArc() emitted an arc with a missing source")
		}
	})

	t.Run("UnrecognizedClassFallsBack", func(t *testing.T) {
		edge, ok := edgeFromArc(arc{Class: "logic arc", Source: "G2", Target: "P1"}, glyphs)
		if !ok {
			t.Fatal("edgeFromArc() dropped a resolvable arc")
		}
		if edge.Type != "interaction" {
			t.Errorf("edge.Type = %q, want interaction", edge.Type)
		}
	})

	t.Run("SynthesizedIDIsDeterministic", func(t *testing.T) {
		a := arc{Class: "consumption", Source: "G2", Target: "P1"}
		first, _ := edgeFromArc(a, glyphs)
		second, _ := edgeFromArc(a, glyphs)
		if first.ID != second.ID {
			t.Fatalf("synthesized ids differ: %q vs %q", first.ID, second.ID)
		}
		if len(first.ID) != 12 {
			t.Errorf("len(id) = %d, want 12", len(first.ID))
		}
		other, _ := edgeFromArc(arc{Class: "production", Source: "G2", Target: "P1"}, glyphs)
		if other.ID == first.ID {
			t.Error("different arc classes hashed to the same id")
		}
	})
}

func TestFormatPoints(t *testing.T) {
	got := formatPoints([]point{{X: 1.5, Y: 2}, {X: 30, Y: 40.25}})
	want := "1.5,2|30,40.25"
	if got != want {
		t.Fatalf("formatPoints() = %q, want %q", got, want)
	}
}
