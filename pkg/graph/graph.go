package graph

// Node represents a single node in the output graph. Nodes are produced by
// adapters from source-specific records (SBGN glyphs, CSV rows) and consumed
// by a store.GraphWriter.
//
// Props is a flat property mapping. Values are limited to strings, floats,
// and string slices so every writer backend can serialize them.
type Node struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	Props map[string]any `json:"props"`
}

// Edge represents a directed edge between two nodes in the output graph.
// Source and Target always reference Node IDs, never source-document
// sub-identifiers such as SBGN ports.
type Edge struct {
	ID     string         `json:"id"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Type   string         `json:"type"`
	Props  map[string]any `json:"props"`
}
