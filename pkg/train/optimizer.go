package train

import (
	"math"

	"github.com/dd0wney/graphnet/pkg/matrix"
	"github.com/dd0wney/graphnet/pkg/nn"
)

// Adam is a standard Adam optimizer over a fixed parameter set.
// Moment buffers are keyed by parameter name and allocated lazily.
type Adam struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64

	step int
	m    map[string]*matrix.Matrix
	v    map[string]*matrix.Matrix
}

// NewAdam creates an Adam optimizer with the usual moment decay rates
func NewAdam(learningRate float64) *Adam {
	return &Adam{
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		m:            make(map[string]*matrix.Matrix),
		v:            make(map[string]*matrix.Matrix),
	}
}

// Step applies one update to every parameter from its accumulated
// gradient. Gradients are not reset; callers zero them per batch.
func (a *Adam) Step(params []*nn.Param) {
	a.step++
	c1 := 1 - math.Pow(a.Beta1, float64(a.step))
	c2 := 1 - math.Pow(a.Beta2, float64(a.step))

	for _, p := range params {
		m, ok := a.m[p.Name]
		if !ok {
			m = matrix.New(p.Value.Rows, p.Value.Cols)
			a.m[p.Name] = m
		}
		v, ok := a.v[p.Name]
		if !ok {
			v = matrix.New(p.Value.Rows, p.Value.Cols)
			a.v[p.Name] = v
		}

		for i, g := range p.Grad.Data {
			m.Data[i] = a.Beta1*m.Data[i] + (1-a.Beta1)*g
			v.Data[i] = a.Beta2*v.Data[i] + (1-a.Beta2)*g*g

			mHat := m.Data[i] / c1
			vHat := v.Data[i] / c2
			p.Value.Data[i] -= a.LearningRate * mHat / (math.Sqrt(vHat) + a.Epsilon)
		}
	}
}
