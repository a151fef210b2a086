package nn

import (
	"math"
	"math/rand"

	"github.com/dd0wney/graphnet/pkg/matrix"
)

// Param is one learnable tensor with its accumulated gradient.
// Gradients are accumulated across a batch and consumed by the
// optimizer; ZeroGrad resets them between steps.
type Param struct {
	Name  string
	Value *matrix.Matrix
	Grad  *matrix.Matrix
}

func newParam(name string, rows, cols int) *Param {
	return &Param{
		Name:  name,
		Value: matrix.New(rows, cols),
		Grad:  matrix.New(rows, cols),
	}
}

// ZeroGrad resets the accumulated gradient
func (p *Param) ZeroGrad() {
	p.Grad.Zero()
}

// glorotInit fills m with Glorot-uniform values from the given
// generator. Reproducibility comes from the caller's seeded rng rather
// than ambient global state.
func glorotInit(m *matrix.Matrix, fanIn, fanOut int, rng *rand.Rand) {
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))
	for i := range m.Data {
		m.Data[i] = rng.Float64()*2*limit - limit
	}
}
