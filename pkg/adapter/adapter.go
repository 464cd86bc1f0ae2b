package adapter

import (
	"iter"

	"sysbiokgs/pkg/graph"
)

// Metadata describes a data source. Every adapter reports at least the keys
// "name", "data_source", "data_type", "version" and "adapter_class"; adapters
// may add source-specific keys on top.
type Metadata map[string]string

// GraphAdapter is the interface every data-source adapter implements.
//
// Nodes and Edges return lazy sequences over the parsed source. The sequences
// are finite and re-traversable: calling Nodes or Edges again walks the cached
// parse from the start, yielding the same records in the same order as long as
// the underlying file is unchanged. Both methods return an error when the
// source cannot be parsed; no partial sequence is produced in that case.
//
// Adapters are not safe for concurrent use. The first call that needs the
// parsed source triggers the parse, which is then cached for the adapter's
// lifetime.
type GraphAdapter interface {
	Nodes() (iter.Seq[graph.Node], error)
	Edges() (iter.Seq[graph.Edge], error)
	Metadata() Metadata
	Validate() bool
}
