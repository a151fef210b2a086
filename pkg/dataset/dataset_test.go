package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dd0wney/graphnet/pkg/graph"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "target.csv", "company_id,target\n0,1\n1,0\n")
	writeFile(t, dir, "0.edgelist", "0,8,1.5\n8,1,0.5\n")
	writeFile(t, dir, "1.edgelist", "2,9,2.0\n")

	samples, err := Load(dir, 8)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(samples) != 2 {
		t.Fatalf("loaded %d samples, want 2", len(samples))
	}
	if samples[0].CompanyID != "0" || samples[0].Label != 1 {
		t.Errorf("sample 0 = %s/%v, want 0/1", samples[0].CompanyID, samples[0].Label)
	}
	if samples[1].CompanyID != "1" || samples[1].Label != 0 {
		t.Errorf("sample 1 = %s/%v, want 1/0", samples[1].CompanyID, samples[1].Label)
	}
	if samples[0].Graph.NumNodes != 9 {
		t.Errorf("sample 0 has %d nodes, want 9", samples[0].Graph.NumNodes)
	}
	if samples[0].Graph.NumEdges() != 4 {
		t.Errorf("sample 0 has %d edges, want 4", samples[0].Graph.NumEdges())
	}

	graphs, labels := Split(samples)
	if len(graphs) != 2 || len(labels) != 2 {
		t.Fatalf("Split returned %d graphs, %d labels", len(graphs), len(labels))
	}
	if labels[0] != 1 || labels[1] != 0 {
		t.Errorf("labels = %v, want [1 0]", labels)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
	}{
		{
			name:  "missing target file",
			setup: func(t *testing.T, dir string) {},
		},
		{
			name: "wrong header",
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, "target.csv", "id,label\n0,1\n")
			},
		},
		{
			name: "non-binary target",
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, "target.csv", "company_id,target\n0,2\n")
				writeFile(t, dir, "0.edgelist", "0,1,1.0\n")
			},
		},
		{
			name: "missing edgelist for listed company",
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, "target.csv", "company_id,target\n0,1\n")
			},
		},
		{
			name: "malformed edgelist",
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, "target.csv", "company_id,target\n0,1\n")
				writeFile(t, dir, "0.edgelist", "0,x,1.0\n")
			},
		},
		{
			name: "empty edgelist",
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, "target.csv", "company_id,target\n0,1\n")
				writeFile(t, dir, "0.edgelist", "")
			},
		},
		{
			name: "empty target file",
			setup: func(t *testing.T, dir string) {
				writeFile(t, dir, "target.csv", "company_id,target\n")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)
			if _, err := Load(dir, 8); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadSurfacesParseErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "target.csv", "company_id,target\n0,1\n")
	writeFile(t, dir, "0.edgelist", "0,1,-3.0\n")

	_, err := Load(dir, 8)
	if !errors.Is(err, graph.ErrBadWeight) {
		t.Errorf("Load = %v, want ErrBadWeight in chain", err)
	}
}
