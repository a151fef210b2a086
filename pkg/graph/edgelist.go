package graph

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// ParseEdgeList reads a comma-delimited edge list: one `src,dst,weight`
// record per line, no header. Node ids must be non-negative integers
// and weights non-negative finite floats; any violation fails
// immediately with a *ParseError carrying the line number.
func ParseEdgeList(r io.Reader) ([]EdgeTriple, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var edges []EdgeTriple
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &ParseError{Line: line, Cause: fmt.Errorf("%w: %v", ErrBadRecord, err)}
		}

		src, err := parseNodeID(record[0])
		if err != nil {
			return nil, &ParseError{Line: line, Field: "src", Cause: err}
		}
		dst, err := parseNodeID(record[1])
		if err != nil {
			return nil, &ParseError{Line: line, Field: "dst", Cause: err}
		}
		weight, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, &ParseError{Line: line, Field: "weight", Cause: fmt.Errorf("%w: %q", ErrBadWeight, record[2])}
		}
		if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			return nil, &ParseError{Line: line, Field: "weight", Cause: fmt.Errorf("%w: %v", ErrBadWeight, weight)}
		}

		edges = append(edges, EdgeTriple{Src: src, Dst: dst, Weight: weight})
	}
	return edges, nil
}

// LoadEdgeListFile parses an edge-list file from disk
func LoadEdgeListFile(path string) ([]EdgeTriple, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open edge list: %w", err)
	}
	defer f.Close()

	edges, err := ParseEdgeList(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return edges, nil
}

func parseNodeID(field string) (int, error) {
	id, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNodeID, field)
	}
	if id < 0 {
		return 0, fmt.Errorf("%w: %d", ErrBadNodeID, id)
	}
	return id, nil
}
