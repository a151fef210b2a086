package graph

import (
	"errors"
	"strings"
	"testing"
)

func TestParseEdgeList(t *testing.T) {
	input := "0,6,1.9\n7,0,2.1\n3,4,0.25\n"

	edges, err := ParseEdgeList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseEdgeList failed: %v", err)
	}

	want := []EdgeTriple{
		{Src: 0, Dst: 6, Weight: 1.9},
		{Src: 7, Dst: 0, Weight: 2.1},
		{Src: 3, Dst: 4, Weight: 0.25},
	}
	if len(edges) != len(want) {
		t.Fatalf("parsed %d edges, want %d", len(edges), len(want))
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, edges[i], want[i])
		}
	}
}

func TestParseEdgeListEmptyInput(t *testing.T) {
	edges, err := ParseEdgeList(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseEdgeList failed: %v", err)
	}
	if len(edges) != 0 {
		t.Errorf("parsed %d edges from empty input", len(edges))
	}
}

func TestParseEdgeListErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  error
		wantLine int
	}{
		{"non-integer src", "a,1,1.0\n", ErrBadNodeID, 1},
		{"negative src", "-3,1,1.0\n", ErrBadNodeID, 1},
		{"float node id", "1.5,1,1.0\n", ErrBadNodeID, 1},
		{"non-numeric weight", "0,1,heavy\n", ErrBadWeight, 1},
		{"negative weight", "0,1,-2.0\n", ErrBadWeight, 1},
		{"nan weight", "0,1,NaN\n", ErrBadWeight, 1},
		{"error on second line", "0,1,1.0\n0,x,1.0\n", ErrBadNodeID, 2},
		{"wrong field count", "0,1\n", ErrBadRecord, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEdgeList(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error is not a *ParseError: %v", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("error line = %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}
