package sbgn

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// sbgnNamespace is the default XML namespace of libsbgn 0.2 documents.
const sbgnNamespace = "http://sbgn.org/libsbgn/0.2"

// element is a generic XML element tree, the raw material of the fallback
// parser. Only namespace, attributes, and child elements are retained.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
}

func (e *element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// attrFloat coerces an attribute to a float, falling back to 0 for missing
// or malformed values.
func (e *element) attrFloat(name string) float64 {
	value, ok := e.attr(name)
	if !ok {
		return 0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func (e *element) childrenNamed(local string) []*element {
	var out []*element
	for i := range e.Children {
		child := &e.Children[i]
		if child.XMLName.Space == sbgnNamespace && child.XMLName.Local == local {
			out = append(out, child)
		}
	}
	return out
}

func (e *element) firstChildNamed(local string) *element {
	children := e.childrenNamed(local)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// findElement searches the subtree rooted at e, including e itself, for the
// first element with the given local name in the SBGN namespace.
func findElement(e *element, local string) *element {
	if e.XMLName.Space == sbgnNamespace && e.XMLName.Local == local {
		return e
	}
	for i := range e.Children {
		if found := findElement(&e.Children[i], local); found != nil {
			return found
		}
	}
	return nil
}

// collectElements gathers every element with the given local name anywhere
// in the subtree, in document order.
func collectElements(e *element, local string, out []*element) []*element {
	if e.XMLName.Space == sbgnNamespace && e.XMLName.Local == local {
		out = append(out, e)
	}
	for i := range e.Children {
		out = collectElements(&e.Children[i], local, out)
	}
	return out
}

// parseFallback parses raw SBGN XML into a plain nested mapping with the
// keys "glyphs", "arcs" and "language". Only the map's direct-child glyphs
// become top-level glyph entries; glyphs nested under them are recorded as
// "nested_glyphs" metadata on the parent. Arcs are collected from the whole
// document.
func parseFallback(content []byte) (map[string]any, error) {
	var root element
	if err := xml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("failed to parse SBGN XML: %w", err)
	}

	mapElem := findElement(&root, "map")
	language := ""
	glyphRoot := &root
	if mapElem != nil {
		glyphRoot = mapElem
		if lang, ok := mapElem.attr("language"); ok {
			language = lang
		}
	}

	glyphs := []map[string]any{}
	for _, glyphElem := range glyphRoot.childrenNamed("glyph") {
		glyphs = append(glyphs, parseGlyphElement(glyphElem))
	}

	arcs := []map[string]any{}
	for _, arcElem := range collectElements(&root, "arc", nil) {
		arcs = append(arcs, parseArcElement(arcElem))
	}

	return map[string]any{
		"glyphs":   glyphs,
		"arcs":     arcs,
		"language": language,
	}, nil
}

func parseGlyphElement(glyphElem *element) map[string]any {
	id, _ := glyphElem.attr("id")
	class, ok := glyphElem.attr("class")
	if !ok {
		class = "unknown"
	}
	glyph := map[string]any{
		"id":    id,
		"class": class,
	}

	if orientation, ok := glyphElem.attr("orientation"); ok {
		glyph["orientation"] = orientation
	}

	if labelElem := glyphElem.firstChildNamed("label"); labelElem != nil {
		text, _ := labelElem.attr("text")
		glyph["label"] = text
	}

	if bboxElem := glyphElem.firstChildNamed("bbox"); bboxElem != nil {
		glyph["bbox"] = map[string]any{
			"x": bboxElem.attrFloat("x"),
			"y": bboxElem.attrFloat("y"),
			"w": bboxElem.attrFloat("w"),
			"h": bboxElem.attrFloat("h"),
		}
	}

	ports := []map[string]any{}
	for _, portElem := range glyphElem.childrenNamed("port") {
		portID, _ := portElem.attr("id")
		ports = append(ports, map[string]any{
			"id": portID,
			"x":  portElem.attrFloat("x"),
			"y":  portElem.attrFloat("y"),
		})
	}
	if len(ports) > 0 {
		glyph["ports"] = ports
	}

	nested := []map[string]any{}
	for _, nestedElem := range glyphElem.childrenNamed("glyph") {
		nestedID, _ := nestedElem.attr("id")
		nestedClass, ok := nestedElem.attr("class")
		if !ok {
			nestedClass = "unknown"
		}
		nestedGlyph := map[string]any{
			"id":    nestedID,
			"class": nestedClass,
		}
		if nestedLabel := nestedElem.firstChildNamed("label"); nestedLabel != nil {
			text, _ := nestedLabel.attr("text")
			nestedGlyph["label"] = text
		}
		nested = append(nested, nestedGlyph)
	}
	if len(nested) > 0 {
		glyph["nested_glyphs"] = nested
	}

	return glyph
}

func parseArcElement(arcElem *element) map[string]any {
	id, _ := arcElem.attr("id")
	class, ok := arcElem.attr("class")
	if !ok {
		class = "unknown"
	}
	source, _ := arcElem.attr("source")
	target, _ := arcElem.attr("target")
	arc := map[string]any{
		"id":     id,
		"class":  class,
		"source": source,
		"target": target,
	}

	if startElem := arcElem.firstChildNamed("start"); startElem != nil {
		arc["start"] = map[string]any{
			"x": startElem.attrFloat("x"),
			"y": startElem.attrFloat("y"),
		}
	}
	if endElem := arcElem.firstChildNamed("end"); endElem != nil {
		arc["end"] = map[string]any{
			"x": endElem.attrFloat("x"),
			"y": endElem.attrFloat("y"),
		}
	}

	// Waypoints are a linked chain: each next element carries its successor
	// as a child.
	nextPoints := []map[string]any{}
	for nextElem := arcElem.firstChildNamed("next"); nextElem != nil; nextElem = nextElem.firstChildNamed("next") {
		nextPoints = append(nextPoints, map[string]any{
			"x": nextElem.attrFloat("x"),
			"y": nextElem.attrFloat("y"),
		})
	}
	if len(nextPoints) > 0 {
		arc["next_points"] = nextPoints
	}

	return arc
}

// mapDocument implements document over the fallback parser's plain mapping.
type mapDocument struct {
	raw map[string]any
}

func (d mapDocument) Glyphs() []glyph {
	entries, _ := d.raw["glyphs"].([]map[string]any)
	glyphs := make([]glyph, 0, len(entries))
	for _, entry := range entries {
		glyphs = append(glyphs, convertGlyphMap(entry))
	}
	return glyphs
}

func (d mapDocument) Arcs() []arc {
	entries, _ := d.raw["arcs"].([]map[string]any)
	arcs := make([]arc, 0, len(entries))
	for _, entry := range entries {
		arcs = append(arcs, convertArcMap(entry))
	}
	return arcs
}

func (d mapDocument) Language() string {
	language, _ := d.raw["language"].(string)
	return language
}

func convertGlyphMap(entry map[string]any) glyph {
	out := glyph{
		ID:          mapString(entry, "id"),
		Class:       mapString(entry, "class"),
		Orientation: mapString(entry, "orientation"),
		Label:       mapString(entry, "label"),
	}
	if bboxMap, ok := entry["bbox"].(map[string]any); ok {
		out.BBox = &bbox{
			X: mapFloat(bboxMap, "x"),
			Y: mapFloat(bboxMap, "y"),
			W: mapFloat(bboxMap, "w"),
			H: mapFloat(bboxMap, "h"),
		}
	}
	if ports, ok := entry["ports"].([]map[string]any); ok {
		for _, p := range ports {
			out.Ports = append(out.Ports, port{
				ID: mapString(p, "id"),
				X:  mapFloat(p, "x"),
				Y:  mapFloat(p, "y"),
			})
		}
	}
	if nested, ok := entry["nested_glyphs"].([]map[string]any); ok {
		for _, n := range nested {
			out.Nested = append(out.Nested, nestedGlyph{
				ID:    mapString(n, "id"),
				Class: mapString(n, "class"),
				Label: mapString(n, "label"),
			})
		}
	}
	return out
}

func convertArcMap(entry map[string]any) arc {
	out := arc{
		ID:     mapString(entry, "id"),
		Class:  mapString(entry, "class"),
		Source: mapString(entry, "source"),
		Target: mapString(entry, "target"),
	}
	if start, ok := entry["start"].(map[string]any); ok {
		out.Start = &point{X: mapFloat(start, "x"), Y: mapFloat(start, "y")}
	}
	if end, ok := entry["end"].(map[string]any); ok {
		out.End = &point{X: mapFloat(end, "x"), Y: mapFloat(end, "y")}
	}
	if nextPoints, ok := entry["next_points"].([]map[string]any); ok {
		for _, p := range nextPoints {
			out.Next = append(out.Next, point{X: mapFloat(p, "x"), Y: mapFloat(p, "y")})
		}
	}
	return out
}

func mapString(entry map[string]any, key string) string {
	value, _ := entry[key].(string)
	return value
}

func mapFloat(entry map[string]any, key string) float64 {
	value, _ := entry[key].(float64)
	return value
}
