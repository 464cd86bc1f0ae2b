package sbgn

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"sysbiokgs/pkg/graph"
	"sysbiokgs/pkg/logger"
)

// glyphClassToNodeType maps SBGN glyph classes to output node types, using
// SBO class names where one exists. Unlisted classes fall back to
// fallbackNodeType. Extend the vocabulary by adding entries here.
var glyphClassToNodeType = map[string]string{
	"macromolecule":        "macromolecule",
	"nucleic acid feature": "information macromolecule",
	"simple chemical":      "simple chemical",
	"process":              "process",
	"source and sink":      "sink reaction",
	"compartment":          "compartment",
	"phenotype":            "phenotype",
	"perturbation":         "perturbation",
}

// arcClassToEdgeType maps SBGN arc classes to output edge types. Unlisted
// classes fall back to fallbackEdgeType.
var arcClassToEdgeType = map[string]string{
	"consumption":           "consumption",
	"production":            "production",
	"inhibition":            "inhibition",
	"necessary stimulation": "necessary_stimulation",
	"catalysis":             "catalysis",
	"modulation":            "modifier",
	"stimulation":           "stimulation",
	"equivalence arc":       "equivalence",
}

const (
	fallbackNodeType = "biological_entity"
	fallbackEdgeType = "interaction"

	unitOfInformationClass = "unit of information"
)

// nodeFromGlyph normalizes one top-level glyph into a graph node. Glyphs
// without an identifier are skipped, reported by the second return value.
func nodeFromGlyph(g glyph) (graph.Node, bool) {
	if g.ID == "" {
		return graph.Node{}, false
	}

	nodeType, ok := glyphClassToNodeType[g.Class]
	if !ok {
		nodeType = fallbackNodeType
	}

	props := map[string]any{
		"sbgn_class": g.Class,
		"sbgn_id":    g.ID,
	}

	if g.Label != "" {
		props["name"] = g.Label
		props["label"] = g.Label
	}

	if g.BBox != nil {
		props["x"] = g.BBox.X
		props["y"] = g.BBox.Y
		props["width"] = g.BBox.W
		props["height"] = g.BBox.H
	}

	if g.Orientation != "" {
		props["orientation"] = g.Orientation
	}

	unitInfo := []string{}
	for _, nested := range g.Nested {
		if nested.Class == unitOfInformationClass && nested.Label != "" {
			unitInfo = append(unitInfo, nested.Label)
		}
	}
	if len(unitInfo) > 0 {
		props["unit_of_information"] = unitInfo
	}

	return graph.Node{
		ID:    g.ID,
		Type:  nodeType,
		Props: props,
	}, true
}

// edgeFromArc normalizes one arc into a graph edge, resolving port
// references to their owning glyphs. Arcs whose endpoints cannot be resolved
// are dropped with a warning, reported by the second return value.
func edgeFromArc(a arc, glyphs []glyph) (graph.Edge, bool) {
	edgeType, ok := arcClassToEdgeType[a.Class]
	if !ok {
		edgeType = fallbackEdgeType
	}

	source, target := resolveEndpoints(a.Source, a.Target, glyphs)
	if source == "" || target == "" {
		logger.Warn("Could not resolve endpoints for arc", "arc_id", a.ID)
		return graph.Edge{}, false
	}

	edgeID := a.ID
	if edgeID == "" {
		edgeID = syntheticEdgeID(source, target, a.Class)
	}

	props := map[string]any{
		"sbgn_arc_class": a.Class,
	}
	if a.ID != "" {
		props["sbgn_arc_id"] = a.ID
	}
	if a.Start != nil {
		props["start_x"] = a.Start.X
		props["start_y"] = a.Start.Y
	}
	if a.End != nil {
		props["end_x"] = a.End.X
		props["end_y"] = a.End.Y
	}
	if len(a.Next) > 0 {
		props["intermediate_points"] = formatPoints(a.Next)
	}

	return graph.Edge{
		ID:     edgeID,
		Source: source,
		Target: target,
		Type:   edgeType,
		Props:  props,
	}, true
}

// syntheticEdgeID derives a stable identifier for arcs that carry none.
// The same source, target, and class always hash to the same id, keeping
// re-runs on an unchanged document idempotent.
func syntheticEdgeID(source, target, class string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s_%s", source, target, class)))
	return hex.EncodeToString(sum[:])[:12]
}

// formatPoints serializes waypoints as pipe-delimited "x,y" pairs in
// document order.
func formatPoints(points []point) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, strconv.FormatFloat(p.X, 'g', -1, 64)+","+strconv.FormatFloat(p.Y, 'g', -1, 64))
	}
	return strings.Join(parts, "|")
}
