package sbgn

import "strings"

// resolveEndpoints maps an arc's raw source and target references to
// top-level glyph identifiers. Arcs may attach either to a glyph directly or
// to a port declared on a process glyph; port references are resolved back to
// the owning glyph. Returns empty identifiers when either reference is
// absent.
func resolveEndpoints(source, target string, glyphs []glyph) (string, string) {
	if source == "" || target == "" {
		return "", ""
	}
	return resolveReference(source, glyphs), resolveReference(target, glyphs)
}

// resolveReference resolves a single endpoint reference.
//
// References following the <glyph-id>.<port-number> naming convention are
// resolved syntactically: everything before the last dot is taken as the
// owning glyph id, without checking that such a glyph exists. Other
// references are matched against glyph ids and declared port ids; an
// unmatched reference is returned unchanged.
func resolveReference(ref string, glyphs []glyph) string {
	if idx := strings.LastIndex(ref, "."); idx != -1 {
		return ref[:idx]
	}

	for _, g := range glyphs {
		if g.ID == ref {
			return g.ID
		}
		for _, p := range g.Ports {
			if p.ID == ref {
				return g.ID
			}
		}
	}

	return ref
}
