package graph

import (
	"errors"
	"math"
	"testing"
)

func TestBuildSmallGraph(t *testing.T) {
	// Two input edges over three nodes with feature width 2
	edges := []EdgeTriple{
		{Src: 0, Dst: 1, Weight: 2.0},
		{Src: 1, Dst: 2, Weight: 1.0},
	}

	g, err := Build(edges, 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if g.NumNodes != 3 {
		t.Errorf("NumNodes = %d, want 3", g.NumNodes)
	}
	if g.NumEdges() != 4 {
		t.Errorf("NumEdges = %d, want 4 (2 forward + 2 reverse)", g.NumEdges())
	}

	// Node 2 reuses the last one-hot column
	wantFeatures := [][]float64{
		{1, 0},
		{0, 1},
		{0, 1},
	}
	for v, row := range wantFeatures {
		for j, want := range row {
			if got := g.Features.At(v, j); got != want {
				t.Errorf("Features[%d][%d] = %v, want %v", v, j, got, want)
			}
		}
	}
}

func TestBuildMirrorsEveryEdge(t *testing.T) {
	edges := []EdgeTriple{
		{Src: 0, Dst: 3, Weight: 1.5},
		{Src: 3, Dst: 1, Weight: 0.5},
		{Src: 2, Dst: 2, Weight: 2.5}, // self-edge mirrors too
	}

	g, err := Build(edges, 8)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	forward := 0
	reverse := 0
	for _, e := range g.Edges {
		switch e.Dir {
		case DirForward:
			forward++
		case DirReverse:
			reverse++
		}
	}
	if forward != len(edges) || reverse != len(edges) {
		t.Fatalf("forward=%d reverse=%d, want %d each", forward, reverse, len(edges))
	}

	// Every forward edge has exactly one mirror with swapped endpoints
	// and identical weight
	for _, fe := range g.Edges {
		if fe.Dir != DirForward {
			continue
		}
		matches := 0
		for _, re := range g.Edges {
			if re.Dir == DirReverse && re.Src == fe.Dst && re.Dst == fe.Src && re.Weight == fe.Weight {
				matches++
			}
		}
		if matches < 1 {
			t.Errorf("forward edge %d->%d has no mirror", fe.Src, fe.Dst)
		}
	}
}

func TestBuildPadsIsolatedNodes(t *testing.T) {
	// Node ids 1..8 never appear, node 9 does
	g, err := Build([]EdgeTriple{{Src: 0, Dst: 9, Weight: 1}}, 8)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if g.NumNodes != 10 {
		t.Fatalf("NumNodes = %d, want 10", g.NumNodes)
	}
	for v := 1; v < 9; v++ {
		if len(g.IncomingEdges(v)) != 0 {
			t.Errorf("padded node %d has incoming edges", v)
		}
	}
	// Padded nodes still carry a feature row
	for v := 0; v < g.NumNodes; v++ {
		active := 0
		for j := 0; j < g.FeatureWidth; j++ {
			if g.Features.At(v, j) == 1 {
				active++
			}
		}
		if active != 1 {
			t.Errorf("node %d has %d active features, want 1", v, active)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		edges   []EdgeTriple
		width   int
		wantErr error
	}{
		{"empty edge list", nil, 8, ErrEmptyGraph},
		{"negative src", []EdgeTriple{{Src: -1, Dst: 0, Weight: 1}}, 8, ErrBadNodeID},
		{"negative dst", []EdgeTriple{{Src: 0, Dst: -2, Weight: 1}}, 8, ErrBadNodeID},
		{"negative weight", []EdgeTriple{{Src: 0, Dst: 1, Weight: -0.5}}, 8, ErrBadWeight},
		{"nan weight", []EdgeTriple{{Src: 0, Dst: 1, Weight: math.NaN()}}, 8, ErrBadWeight},
		{"inf weight", []EdgeTriple{{Src: 0, Dst: 1, Weight: math.Inf(1)}}, 8, ErrBadWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.edges, tt.width)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Build error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEdgeListRoundTrip(t *testing.T) {
	in := []EdgeTriple{
		{Src: 0, Dst: 6, Weight: 1.9},
		{Src: 7, Dst: 0, Weight: 2.1},
		{Src: 3, Dst: 4, Weight: 0.25},
	}

	g, err := Build(in, 8)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	out := g.EdgeList()
	if len(out) != len(in) {
		t.Fatalf("round-trip edge count = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("edge %d = %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestIncomingIndexCoversAllEdges(t *testing.T) {
	g, err := Build([]EdgeTriple{
		{Src: 0, Dst: 1, Weight: 1},
		{Src: 2, Dst: 1, Weight: 2},
		{Src: 1, Dst: 0, Weight: 3},
	}, 4)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	seen := make(map[int]bool)
	for v := 0; v < g.NumNodes; v++ {
		for _, idx := range g.IncomingEdges(v) {
			if g.Edges[idx].Dst != v {
				t.Errorf("edge %d indexed under node %d but has Dst %d", idx, v, g.Edges[idx].Dst)
			}
			if seen[idx] {
				t.Errorf("edge %d indexed twice", idx)
			}
			seen[idx] = true
		}
	}
	if len(seen) != g.NumEdges() {
		t.Errorf("index covers %d edges, want %d", len(seen), g.NumEdges())
	}
}
