package train

import (
	"fmt"
	"math"

	"github.com/dd0wney/graphnet/pkg/matrix"
)

// BCEWithLogits computes the mean binary cross-entropy over a column
// of logits against binary labels and returns the loss together with
// the gradient with respect to each logit (already scaled by 1/K).
//
// The loss is evaluated in the log-sum-exp form
//
//	l(x, y) = max(x, 0) - x*y + log(1 + exp(-|x|))
//
// so large logits never overflow.
func BCEWithLogits(logits *matrix.Matrix, labels []float64) (float64, *matrix.Matrix, error) {
	if logits.Rows != len(labels) {
		return 0, nil, fmt.Errorf("%w: %d logits for %d labels",
			matrix.ErrDimensionMismatch, logits.Rows, len(labels))
	}
	if logits.Cols != 1 {
		return 0, nil, fmt.Errorf("%w: binary loss expects 1 logit column, got %d",
			matrix.ErrDimensionMismatch, logits.Cols)
	}

	grad := matrix.New(logits.Rows, 1)
	total := 0.0
	scale := 1 / float64(logits.Rows)
	for i := 0; i < logits.Rows; i++ {
		x := logits.At(i, 0)
		y := labels[i]

		l := math.Max(x, 0) - x*y + math.Log1p(math.Exp(-math.Abs(x)))
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return 0, nil, fmt.Errorf("%w: loss for graph %d", matrix.ErrNumericInstability, i)
		}
		total += l
		grad.Set(i, 0, (matrix.Sigmoid(x)-y)*scale)
	}
	return total * scale, grad, nil
}
