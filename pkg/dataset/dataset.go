// Package dataset loads company relationship graphs from a directory
// of edge-list files joined 1:1 with a target file.
//
// Layout, as produced by the upstream data pipeline:
//
//	<dir>/target.csv      header `company_id,target`, binary targets
//	<dir>/<company_id>.edgelist   `src,dst,weight` records, no header
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dd0wney/graphnet/pkg/graph"
)

// TargetFileName is the expected name of the label file
const TargetFileName = "target.csv"

// ErrBadTarget is returned when a target value is not binary
var ErrBadTarget = errors.New("target must be 0 or 1")

// Sample is one labeled company graph
type Sample struct {
	CompanyID string
	Graph     *graph.Graph
	Label     float64
}

// Load reads every company listed in <dir>/target.csv together with
// its edge-list file, building graphs with the given feature width.
// The join is strict: a listed company without an edge-list file is an
// error, and samples are returned in target-file order.
func Load(dir string, featureWidth int) ([]Sample, error) {
	f, err := os.Open(filepath.Join(dir, TargetFileName))
	if err != nil {
		return nil, fmt.Errorf("open target file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read target header: %w", err)
	}
	if header[0] != "company_id" || header[1] != "target" {
		return nil, fmt.Errorf("unexpected target header %v, want [company_id target]", header)
	}

	var samples []Sample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read target record: %w", err)
		}

		id := record[0]
		target, err := strconv.Atoi(record[1])
		if err != nil || (target != 0 && target != 1) {
			return nil, fmt.Errorf("company %s: %w: %q", id, ErrBadTarget, record[1])
		}

		edges, err := graph.LoadEdgeListFile(filepath.Join(dir, id+".edgelist"))
		if err != nil {
			return nil, fmt.Errorf("company %s: %w", id, err)
		}
		g, err := graph.Build(edges, featureWidth)
		if err != nil {
			return nil, fmt.Errorf("company %s: %w", id, err)
		}

		samples = append(samples, Sample{CompanyID: id, Graph: g, Label: float64(target)})
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("target file lists no companies")
	}
	return samples, nil
}

// Split separates samples into the parallel graph and label lists the
// training driver consumes
func Split(samples []Sample) ([]*graph.Graph, []float64) {
	graphs := make([]*graph.Graph, len(samples))
	labels := make([]float64, len(samples))
	for i, s := range samples {
		graphs[i] = s.Graph
		labels[i] = s.Label
	}
	return graphs, labels
}
