package store

import (
	"context"
	"iter"

	"sysbiokgs/pkg/graph"
)

// GraphWriter is the consumer side of the adapter interface. It receives the
// node and edge sequences an adapter produces and decides the storage
// representation, the import tooling, and the run summary.
//
// WriteNodes and WriteEdges fully consume the sequence they are handed.
// Summary finalizes the run after both streams have been written.
type GraphWriter interface {
	WriteNodes(ctx context.Context, nodes iter.Seq[graph.Node]) error
	WriteEdges(ctx context.Context, edges iter.Seq[graph.Edge]) error
	Summary(ctx context.Context) error
}
