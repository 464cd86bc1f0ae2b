// Package csvres implements a GraphAdapter over plain tabular CSV resources.
// Each row of the node file becomes one node; an optional relations file
// contributes edges. There is no endpoint resolution beyond taking the
// source and target columns verbatim.
package csvres

import (
	"bytes"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"sysbiokgs/pkg/adapter"
	"sysbiokgs/pkg/graph"
	"sysbiokgs/pkg/logger"
)

const adapterVersion = "0.1.0"

const (
	defaultNodeType = "data_node"
	defaultEdgeType = "related_to"
)

// CSVAdapter extracts nodes from a CSV file with an "id" column and, when a
// relations file is configured, edges from a CSV file with "source" and
// "target" columns. A "type" column overrides the default node or edge type;
// all remaining columns become properties.
type CSVAdapter struct {
	dataSource string
	relations  string

	nodes  []graph.Node
	edges  []graph.Edge
	loaded bool
}

// NewCSVAdapterParams defines the configuration for creating a CSVAdapter.
// Relations is optional; without it the adapter emits no edges.
type NewCSVAdapterParams struct {
	DataSource string
	Relations  string
}

// NewCSVAdapter creates a new CSV adapter. It fails immediately when the
// node file does not exist.
func NewCSVAdapter(params NewCSVAdapterParams) (*CSVAdapter, error) {
	if _, err := os.Stat(params.DataSource); err != nil {
		return nil, fmt.Errorf("CSV file not found: %w", err)
	}

	logger.Info("Initialized CSV adapter", "data_source", params.DataSource)

	return &CSVAdapter{
		dataSource: params.DataSource,
		relations:  params.Relations,
	}, nil
}

func (a *CSVAdapter) load() error {
	if a.loaded {
		return nil
	}

	rows, header, err := readTable(a.dataSource)
	if err != nil {
		return err
	}
	if _, ok := header["id"]; !ok {
		return fmt.Errorf("CSV file %s has no id column", a.dataSource)
	}

	for _, row := range rows {
		id := rowValue(row, header, "id")
		if id == "" {
			continue
		}
		nodeType := rowValue(row, header, "type")
		if nodeType == "" {
			nodeType = defaultNodeType
		}
		a.nodes = append(a.nodes, graph.Node{
			ID:    id,
			Type:  nodeType,
			Props: rowProps(row, header, "id", "type"),
		})
	}

	if a.relations != "" {
		rows, header, err := readTable(a.relations)
		if err != nil {
			return err
		}
		if _, ok := header["source"]; !ok {
			return fmt.Errorf("relations file %s has no source column", a.relations)
		}
		if _, ok := header["target"]; !ok {
			return fmt.Errorf("relations file %s has no target column", a.relations)
		}

		for _, row := range rows {
			source := rowValue(row, header, "source")
			target := rowValue(row, header, "target")
			if source == "" || target == "" {
				logger.Warn("Skipping relation row with missing endpoint", "source", source, "target", target)
				continue
			}
			edgeType := rowValue(row, header, "type")
			if edgeType == "" {
				edgeType = defaultEdgeType
			}
			sum := md5.Sum([]byte(source + "_" + target + "_" + edgeType))
			a.edges = append(a.edges, graph.Edge{
				ID:     hex.EncodeToString(sum[:])[:12],
				Source: source,
				Target: target,
				Type:   edgeType,
				Props:  rowProps(row, header, "source", "target", "type"),
			})
		}
	}

	a.loaded = true
	return nil
}

// Nodes returns the lazy node sequence, one node per CSV row in file order.
// Rows without an id are skipped.
func (a *CSVAdapter) Nodes() (iter.Seq[graph.Node], error) {
	if err := a.load(); err != nil {
		return nil, err
	}

	return func(yield func(graph.Node) bool) {
		for _, node := range a.nodes {
			if !yield(node) {
				return
			}
		}
		logger.Info("Extracted nodes from CSV file", "count", len(a.nodes))
	}, nil
}

// Edges returns the lazy edge sequence from the relations file, empty when
// none is configured.
func (a *CSVAdapter) Edges() (iter.Seq[graph.Edge], error) {
	if err := a.load(); err != nil {
		return nil, err
	}

	return func(yield func(graph.Edge) bool) {
		for _, edge := range a.edges {
			if !yield(edge) {
				return
			}
		}
	}, nil
}

// Metadata describes the data source.
func (a *CSVAdapter) Metadata() adapter.Metadata {
	return adapter.Metadata{
		"name":          "CSVAdapter",
		"data_source":   a.dataSource,
		"data_type":     "csv",
		"version":       adapterVersion,
		"adapter_class": "CSVAdapter",
	}
}

// Validate reports whether the node file exists, parses as CSV, and has at
// least one column. It never returns an error.
func (a *CSVAdapter) Validate() bool {
	info, err := os.Stat(a.dataSource)
	if err != nil || info.IsDir() {
		return false
	}

	_, header, err := readTable(a.dataSource)
	if err != nil {
		logger.Error("Data source validation failed", "err", err)
		return false
	}

	return len(header) > 0
}

// readTable reads a CSV file into rows plus a column-name index. The reader
// is tolerant the same way the document loaders are: lazy quotes, variable
// field counts, blank rows skipped.
func readTable(path string) ([][]string, map[string]int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse CSV file: %w", err)
		}

		empty := true
		for _, field := range record {
			if strings.TrimSpace(field) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("CSV file %s is empty", path)
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(strings.ToLower(name))] = i
	}

	return rows[1:], header, nil
}

func rowValue(row []string, header map[string]int, column string) string {
	idx, ok := header[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rowProps(row []string, header map[string]int, reserved ...string) map[string]any {
	props := map[string]any{}
	for name, idx := range header {
		skip := false
		for _, r := range reserved {
			if name == r {
				skip = true
				break
			}
		}
		if skip || idx >= len(row) {
			continue
		}
		value := strings.TrimSpace(row[idx])
		if value != "" {
			props[name] = value
		}
	}
	return props
}
