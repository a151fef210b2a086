package model

import (
	"fmt"

	"github.com/dd0wney/graphnet/pkg/graph"
	"github.com/dd0wney/graphnet/pkg/matrix"
)

// readoutCache records, per graph, which remainder row won each
// max-pool column so the backward pass can route gradients
type readoutCache struct {
	argmax [][]int // [graph][column] -> absolute node index
}

// readout compresses per-node embeddings into one fixed-width vector
// per member graph: the first headCount node embeddings in index
// order, then mean and max pools over the remaining nodes. headCount
// is feature_width-1; every graph therefore needs at least
// feature_width nodes so the pooled remainder is non-empty. Smaller
// graphs are rejected with ErrInsufficientNodes rather than silently
// zero-filled.
func readout(h *matrix.Matrix, spans []graph.Span, headCount int) (*matrix.Matrix, *readoutCache, error) {
	dim := h.Cols
	out := matrix.New(len(spans), (headCount+2)*dim)
	cache := &readoutCache{argmax: make([][]int, len(spans))}

	for k, span := range spans {
		if span.Len() < headCount+1 {
			return nil, nil, fmt.Errorf("%w: graph %d has %d nodes, readout needs at least %d",
				ErrInsufficientNodes, k, span.Len(), headCount+1)
		}

		row := out.Row(k)
		for i := 0; i < headCount; i++ {
			copy(row[i*dim:(i+1)*dim], h.Row(span.Start+i))
		}

		meanPart := row[headCount*dim : (headCount+1)*dim]
		maxPart := row[(headCount+1)*dim : (headCount+2)*dim]
		argmax := make([]int, dim)

		first := span.Start + headCount
		copy(maxPart, h.Row(first))
		for j := 0; j < dim; j++ {
			argmax[j] = first
		}
		for v := first; v < span.End; v++ {
			hrow := h.Row(v)
			matrix.Axpy(1, hrow, meanPart)
			for j, x := range hrow {
				if x > maxPart[j] {
					maxPart[j] = x
					argmax[j] = v
				}
			}
		}
		matrix.Scale(1/float64(span.End-first), meanPart)
		cache.argmax[k] = argmax
	}

	return out, cache, nil
}

// readoutBackward maps flat readout gradients back onto per-node
// embedding gradients
func readoutBackward(dFlat *matrix.Matrix, spans []graph.Span, headCount, numNodes int, cache *readoutCache) *matrix.Matrix {
	dim := dFlat.Cols / (headCount + 2)
	dh := matrix.New(numNodes, dim)

	for k, span := range spans {
		row := dFlat.Row(k)
		for i := 0; i < headCount; i++ {
			matrix.Axpy(1, row[i*dim:(i+1)*dim], dh.Row(span.Start+i))
		}

		meanGrad := row[headCount*dim : (headCount+1)*dim]
		maxGrad := row[(headCount+1)*dim : (headCount+2)*dim]

		first := span.Start + headCount
		scale := 1 / float64(span.End-first)
		for v := first; v < span.End; v++ {
			matrix.Axpy(scale, meanGrad, dh.Row(v))
		}
		for j, v := range cache.argmax[k] {
			dh.Row(v)[j] += maxGrad[j]
		}
	}
	return dh
}
