package batch

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"sysbiokgs/pkg/graph"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestWriteNodes(t *testing.T) {
	writer, err := NewBatchWriter(NewBatchWriterParams{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}

	nodes := []graph.Node{
		{ID: "P1", Type: "macromolecule", Props: map[string]any{"name": "MAPK", "x": 10.5}},
		{ID: "P3", Type: "macromolecule", Props: map[string]any{"name": "ERK"}},
		{ID: "P2", Type: "process", Props: map[string]any{"sbgn_class": "process"}},
	}
	if err := writer.WriteNodes(context.Background(), slices.Values(nodes)); err != nil {
		t.Fatalf("WriteNodes() error = %v", err)
	}

	rows := readCSV(t, filepath.Join(writer.RunDir(), "nodes_macromolecule.csv"))
	wantHeader := []string{":ID", "name", "x", ":LABEL"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}
	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3", len(rows))
	}
	if !reflect.DeepEqual(rows[1], []string{"P1", "MAPK", "10.5", "macromolecule"}) {
		t.Errorf("rows[1] = %v", rows[1])
	}
	// Missing property values stay empty, not zero.
	if !reflect.DeepEqual(rows[2], []string{"P3", "ERK", "", "macromolecule"}) {
		t.Errorf("rows[2] = %v", rows[2])
	}

	if _, err := os.Stat(filepath.Join(writer.RunDir(), "nodes_process.csv")); err != nil {
		t.Errorf("process part file missing: %v", err)
	}
}

func TestWriteEdgesAndSummary(t *testing.T) {
	writer, err := NewBatchWriter(NewBatchWriterParams{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	nodes := []graph.Node{{ID: "P1", Type: "macromolecule", Props: map[string]any{}}}
	edges := []graph.Edge{
		{
			ID:     "a1",
			Source: "P1",
			Target: "P2",
			Type:   "consumption",
			Props:  map[string]any{"intermediate_points": "15,25|30,40", "tags": []string{"a", "b"}},
		},
	}

	if err := writer.WriteNodes(ctx, slices.Values(nodes)); err != nil {
		t.Fatal(err)
	}
	if err := writer.WriteEdges(ctx, slices.Values(edges)); err != nil {
		t.Fatal(err)
	}
	if err := writer.Summary(ctx); err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	rows := readCSV(t, filepath.Join(writer.RunDir(), "edges_consumption.csv"))
	wantHeader := []string{":START_ID", ":END_ID", "id", "intermediate_points", "tags", ":TYPE"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}
	if !reflect.DeepEqual(rows[1], []string{"P1", "P2", "a1", "15,25|30,40", "a|b", "consumption"}) {
		t.Errorf("rows[1] = %v", rows[1])
	}

	script, err := os.ReadFile(filepath.Join(writer.RunDir(), importScriptName))
	if err != nil {
		t.Fatalf("import script missing: %v", err)
	}
	content := string(script)
	if !strings.Contains(content, "--nodes=\"nodes_macromolecule.csv\"") {
		t.Errorf("import script lacks node file reference:\n%s", content)
	}
	if !strings.Contains(content, "--relationships=\"edges_consumption.csv\"") {
		t.Errorf("import script lacks edge file reference:\n%s", content)
	}
}

func TestWriteNodesCancelledContext(t *testing.T) {
	writer, err := NewBatchWriter(NewBatchWriterParams{OutputDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nodes := []graph.Node{{ID: "P1", Type: "process", Props: map[string]any{}}}
	if err := writer.WriteNodes(ctx, slices.Values(nodes)); err == nil {
		t.Fatal("WriteNodes() expected error for cancelled context")
	}
}
