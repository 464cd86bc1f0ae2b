// Package batch implements a GraphWriter that materializes a run as
// neo4j-admin bulk-import artifacts: one CSV part file per node label and
// edge type, plus a shell script wiring them into an import command. No
// database is touched; storage itself stays with the downstream system.
package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"sysbiokgs/pkg/graph"
	"sysbiokgs/pkg/logger"
)

const importScriptName = "neo4j-admin-import.sh"

// BatchWriter buffers nodes and edges per label and flushes them as CSV part
// files under a per-run output directory. A BatchWriter is single-use: one
// run, then Summary.
type BatchWriter struct {
	runDir string

	nodeGroups map[string][]graph.Node
	edgeGroups map[string][]graph.Edge
	nodeFiles  []string
	edgeFiles  []string
	nodeCount  int
	edgeCount  int
}

// NewBatchWriterParams defines the configuration for creating a BatchWriter.
// OutputDir is the parent directory; every run writes into a fresh
// subdirectory named after a generated run id.
type NewBatchWriterParams struct {
	OutputDir string
}

// NewBatchWriter creates the run directory and returns a writer bound to it.
func NewBatchWriter(params NewBatchWriterParams) (*BatchWriter, error) {
	runID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("nanoid: %w", err)
	}

	runDir := filepath.Join(params.OutputDir, "run-"+runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info("Initialized batch writer", "run_dir", runDir)

	return &BatchWriter{
		runDir:     runDir,
		nodeGroups: map[string][]graph.Node{},
		edgeGroups: map[string][]graph.Edge{},
	}, nil
}

// RunDir returns the directory this run's artifacts are written into.
func (w *BatchWriter) RunDir() string {
	return w.runDir
}

// WriteNodes consumes the node sequence and flushes one part file per node
// type. Part files are written concurrently once the sequence is drained.
func (w *BatchWriter) WriteNodes(ctx context.Context, nodes iter.Seq[graph.Node]) error {
	for node := range nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.nodeGroups[node.Type] = append(w.nodeGroups[node.Type], node)
		w.nodeCount++
	}

	eg, gCtx := errgroup.WithContext(ctx)
	for nodeType, group := range w.nodeGroups {
		path := filepath.Join(w.runDir, "nodes_"+sanitizeLabel(nodeType)+".csv")
		w.nodeFiles = append(w.nodeFiles, path)
		eg.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return writeNodeFile(path, nodeType, group)
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("failed to write node files: %w", err)
	}

	logger.Info("Wrote nodes", "count", w.nodeCount, "labels", len(w.nodeGroups))
	return nil
}

// WriteEdges consumes the edge sequence and flushes one part file per edge
// type.
func (w *BatchWriter) WriteEdges(ctx context.Context, edges iter.Seq[graph.Edge]) error {
	for edge := range edges {
		if err := ctx.Err(); err != nil {
			return err
		}
		w.edgeGroups[edge.Type] = append(w.edgeGroups[edge.Type], edge)
		w.edgeCount++
	}

	eg, gCtx := errgroup.WithContext(ctx)
	for edgeType, group := range w.edgeGroups {
		path := filepath.Join(w.runDir, "edges_"+sanitizeLabel(edgeType)+".csv")
		w.edgeFiles = append(w.edgeFiles, path)
		eg.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return writeEdgeFile(path, edgeType, group)
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("failed to write edge files: %w", err)
	}

	logger.Info("Wrote edges", "count", w.edgeCount, "types", len(w.edgeGroups))
	return nil
}

// Summary writes the import script and logs per-label counts for the run.
func (w *BatchWriter) Summary(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := w.writeImportScript(); err != nil {
		return err
	}

	for nodeType, group := range w.nodeGroups {
		logger.Info("Node label summary", "label", nodeType, "count", len(group))
	}
	for edgeType, group := range w.edgeGroups {
		logger.Info("Edge type summary", "type", edgeType, "count", len(group))
	}
	logger.Info("Run completed", "nodes", w.nodeCount, "edges", w.edgeCount, "run_dir", w.runDir)

	return nil
}

func (w *BatchWriter) writeImportScript() error {
	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString("# Bulk import for the generated knowledge graph part files.\n")
	sb.WriteString("neo4j-admin database import full \\\n")

	sort.Strings(w.nodeFiles)
	sort.Strings(w.edgeFiles)
	for _, path := range w.nodeFiles {
		sb.WriteString(fmt.Sprintf("  --nodes=%q \\\n", filepath.Base(path)))
	}
	for _, path := range w.edgeFiles {
		sb.WriteString(fmt.Sprintf("  --relationships=%q \\\n", filepath.Base(path)))
	}
	sb.WriteString("  neo4j\n")

	path := filepath.Join(w.runDir, importScriptName)
	if err := os.WriteFile(path, []byte(sb.String()), 0o755); err != nil {
		return fmt.Errorf("failed to write import script: %w", err)
	}
	return nil
}

func writeNodeFile(path string, nodeType string, nodes []graph.Node) error {
	keys := propKeys(len(nodes), func(i int) map[string]any { return nodes[i].Props })

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	header := append([]string{":ID"}, keys...)
	header = append(header, ":LABEL")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, node := range nodes {
		row := make([]string, 0, len(header))
		row = append(row, node.ID)
		for _, key := range keys {
			row = append(row, formatValue(node.Props[key]))
		}
		row = append(row, nodeType)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeEdgeFile(path string, edgeType string, edges []graph.Edge) error {
	keys := propKeys(len(edges), func(i int) map[string]any { return edges[i].Props })

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	header := append([]string{":START_ID", ":END_ID", "id"}, keys...)
	header = append(header, ":TYPE")
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, edge := range edges {
		row := make([]string, 0, len(header))
		row = append(row, edge.Source, edge.Target, edge.ID)
		for _, key := range keys {
			row = append(row, formatValue(edge.Props[key]))
		}
		row = append(row, edgeType)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// propKeys returns the sorted union of property keys across a group, so
// every row of a part file shares one header.
func propKeys(n int, props func(int) map[string]any) []string {
	seen := map[string]struct{}{}
	for i := 0; i < n; i++ {
		for key := range props(i) {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []string:
		return strings.Join(v, "|")
	default:
		return fmt.Sprint(v)
	}
}

func sanitizeLabel(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "_")
}
