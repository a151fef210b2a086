package nn

import (
	"fmt"
	"math/rand"

	"github.com/dd0wney/graphnet/pkg/matrix"
)

// Linear is a fully connected layer computing y = x*W + b.
// The bias may be disabled (attention projections run without one).
type Linear struct {
	InDim  int
	OutDim int
	W      *Param
	B      *Param // nil when the layer has no bias
}

// NewLinear creates a Glorot-initialized linear layer
func NewLinear(name string, inDim, outDim int, bias bool, rng *rand.Rand) *Linear {
	l := &Linear{
		InDim:  inDim,
		OutDim: outDim,
		W:      newParam(name+".weight", inDim, outDim),
	}
	glorotInit(l.W.Value, inDim, outDim, rng)
	if bias {
		l.B = newParam(name+".bias", 1, outDim)
	}
	return l
}

// Forward computes x*W + b.
// Returns ErrDimensionMismatch if x width disagrees with InDim.
func (l *Linear) Forward(x *matrix.Matrix) (*matrix.Matrix, error) {
	if x.Cols != l.InDim {
		return nil, fmt.Errorf("%w: input width %d, layer expects %d", matrix.ErrDimensionMismatch, x.Cols, l.InDim)
	}
	y, err := matrix.Mul(x, l.W.Value)
	if err != nil {
		return nil, err
	}
	if l.B != nil {
		bias := l.B.Value.Row(0)
		for i := 0; i < y.Rows; i++ {
			matrix.Axpy(1, bias, y.Row(i))
		}
	}
	return y, nil
}

// Backward accumulates parameter gradients for the forward input x and
// output gradient dy, and returns the input gradient dx
func (l *Linear) Backward(x, dy *matrix.Matrix) (*matrix.Matrix, error) {
	if dy.Cols != l.OutDim {
		return nil, fmt.Errorf("%w: gradient width %d, layer expects %d", matrix.ErrDimensionMismatch, dy.Cols, l.OutDim)
	}

	dw, err := matrix.MulTransA(x, dy)
	if err != nil {
		return nil, err
	}
	for i, v := range dw.Data {
		l.W.Grad.Data[i] += v
	}

	if l.B != nil {
		db := l.B.Grad.Row(0)
		for i := 0; i < dy.Rows; i++ {
			matrix.Axpy(1, dy.Row(i), db)
		}
	}

	return matrix.MulTransB(dy, l.W.Value)
}

// Params returns the layer's learnable parameters
func (l *Linear) Params() []*Param {
	if l.B == nil {
		return []*Param{l.W}
	}
	return []*Param{l.W, l.B}
}
