package sbgn

import (
	"encoding/xml"
	"fmt"
	"sync"

	"sysbiokgs/internal/util"
)

// ParserCapability selects which of the two parse paths backs an adapter:
// the typed libsbgn object model or the generic element-walking parser.
type ParserCapability string

const (
	// ParserLibsbgn decodes documents into the typed libsbgn 0.2 object model.
	ParserLibsbgn ParserCapability = "libsbgn"
	// ParserGeneric walks the raw XML into a plain nested mapping. Used when
	// the typed model cannot be trusted for a document.
	ParserGeneric ParserCapability = "generic"
)

var detectCapability = sync.OnceValue(func() ParserCapability {
	if util.GetEnv("SBGN_PARSER") == string(ParserGeneric) {
		return ParserGeneric
	}
	return ParserLibsbgn
})

// DetectParserCapability resolves the parse path once per process. Setting
// SBGN_PARSER=generic forces the fallback parser; the typed decoder is the
// default.
func DetectParserCapability() ParserCapability {
	return detectCapability()
}

// glyph is the shim's normalized view of one top-level SBGN glyph,
// independent of which backing representation produced it.
type glyph struct {
	ID          string
	Class       string
	Orientation string
	Label       string
	BBox        *bbox
	Ports       []port
	Nested      []nestedGlyph
}

type bbox struct {
	X, Y, W, H float64
}

// port is an attachment point declared on a glyph. Ports never become nodes;
// arc references to them resolve back to the owning glyph.
type port struct {
	ID   string
	X, Y float64
}

// nestedGlyph is a glyph declared inside another glyph. Only its label is
// ever surfaced, as unit-of-information metadata on the parent node.
type nestedGlyph struct {
	ID    string
	Class string
	Label string
}

type point struct {
	X, Y float64
}

// arc is the shim's normalized view of one SBGN arc.
type arc struct {
	ID     string
	Class  string
	Source string
	Target string
	Start  *point
	End    *point
	Next   []point
}

// document is the narrow read interface over a parsed SBGN file. Two
// implementations exist: richDocument over the typed libsbgn model and
// mapDocument over the fallback parser's plain mapping. The variant is fixed
// when the adapter loads the file; there is no per-call shape probing.
type document interface {
	Glyphs() []glyph
	Arcs() []arc
	Language() string
}

// Typed libsbgn 0.2 object model. Field matching is by local element name so
// the same structs decode a <sbgn> root with one or more <map> children as
// well as documents whose root is the map itself.

type xmlRoot struct {
	XMLName  xml.Name
	Language string     `xml:"language,attr"`
	Maps     []xmlMap   `xml:"map"`
	Glyphs   []xmlGlyph `xml:"glyph"`
	Arcs     []xmlArc   `xml:"arc"`
}

type xmlMap struct {
	Language string     `xml:"language,attr"`
	Glyphs   []xmlGlyph `xml:"glyph"`
	Arcs     []xmlArc   `xml:"arc"`
}

type xmlGlyph struct {
	ID          string     `xml:"id,attr"`
	Class       string     `xml:"class,attr"`
	Orientation string     `xml:"orientation,attr"`
	Label       *xmlLabel  `xml:"label"`
	BBox        *xmlBBox   `xml:"bbox"`
	Ports       []xmlPort  `xml:"port"`
	Glyphs      []xmlGlyph `xml:"glyph"`
}

type xmlLabel struct {
	Text string `xml:"text,attr"`
}

type xmlBBox struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	W float64 `xml:"w,attr"`
	H float64 `xml:"h,attr"`
}

type xmlPort struct {
	ID string  `xml:"id,attr"`
	X  float64 `xml:"x,attr"`
	Y  float64 `xml:"y,attr"`
}

type xmlArc struct {
	ID     string    `xml:"id,attr"`
	Class  string    `xml:"class,attr"`
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Start  *xmlPoint `xml:"start"`
	End    *xmlPoint `xml:"end"`
	Next   *xmlNext  `xml:"next"`
}

type xmlPoint struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
}

// xmlNext models the chained waypoint encoding, where each next element
// holds the following one as a child.
type xmlNext struct {
	X    float64  `xml:"x,attr"`
	Y    float64  `xml:"y,attr"`
	Next *xmlNext `xml:"next"`
}

// richDocument implements document over the typed libsbgn model.
type richDocument struct {
	root xmlRoot
}

func decodeDocument(content []byte) (document, error) {
	var root xmlRoot
	if err := xml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("failed to parse SBGN XML: %w", err)
	}
	return &richDocument{root: root}, nil
}

// primaryMap returns the first map of the document, or nil when the glyphs
// live directly on the root element.
func (d *richDocument) primaryMap() *xmlMap {
	if len(d.root.Maps) > 0 {
		return &d.root.Maps[0]
	}
	return nil
}

func (d *richDocument) Glyphs() []glyph {
	source := d.root.Glyphs
	if m := d.primaryMap(); m != nil {
		source = m.Glyphs
	}
	glyphs := make([]glyph, 0, len(source))
	for _, g := range source {
		glyphs = append(glyphs, convertXMLGlyph(g))
	}
	return glyphs
}

func (d *richDocument) Arcs() []arc {
	source := d.root.Arcs
	if m := d.primaryMap(); m != nil {
		source = m.Arcs
	}
	arcs := make([]arc, 0, len(source))
	for _, a := range source {
		arcs = append(arcs, convertXMLArc(a))
	}
	return arcs
}

func (d *richDocument) Language() string {
	if m := d.primaryMap(); m != nil {
		return m.Language
	}
	if d.root.XMLName.Local == "map" {
		return d.root.Language
	}
	return ""
}

func convertXMLGlyph(g xmlGlyph) glyph {
	out := glyph{
		ID:          g.ID,
		Class:       classOrUnknown(g.Class),
		Orientation: g.Orientation,
	}
	if g.Label != nil {
		out.Label = g.Label.Text
	}
	if g.BBox != nil {
		out.BBox = &bbox{X: g.BBox.X, Y: g.BBox.Y, W: g.BBox.W, H: g.BBox.H}
	}
	for _, p := range g.Ports {
		out.Ports = append(out.Ports, port{ID: p.ID, X: p.X, Y: p.Y})
	}
	for _, sub := range g.Glyphs {
		n := nestedGlyph{ID: sub.ID, Class: classOrUnknown(sub.Class)}
		if sub.Label != nil {
			n.Label = sub.Label.Text
		}
		out.Nested = append(out.Nested, n)
	}
	return out
}

func convertXMLArc(a xmlArc) arc {
	out := arc{
		ID:     a.ID,
		Class:  classOrUnknown(a.Class),
		Source: a.Source,
		Target: a.Target,
	}
	if a.Start != nil {
		out.Start = &point{X: a.Start.X, Y: a.Start.Y}
	}
	if a.End != nil {
		out.End = &point{X: a.End.X, Y: a.End.Y}
	}
	for next := a.Next; next != nil; next = next.Next {
		out.Next = append(out.Next, point{X: next.X, Y: next.Y})
	}
	return out
}

func classOrUnknown(class string) string {
	if class == "" {
		return "unknown"
	}
	return class
}
