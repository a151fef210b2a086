package matrix

import "math"

// Dot computes the inner product of two equal-length vectors.
// Callers are expected to have validated lengths.
func Dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Axpy computes y += alpha * x in place
func Axpy(alpha float64, x, y []float64) {
	for i := range x {
		y[i] += alpha * x[i]
	}
}

// Scale multiplies every element of x by alpha in place
func Scale(alpha float64, x []float64) {
	for i := range x {
		x[i] *= alpha
	}
}

// Softmax computes a numerically stable softmax over x in place.
// The maximum logit is subtracted before exponentiation so large
// logits cannot overflow.
func Softmax(x []float64) {
	if len(x) == 0 {
		return
	}
	max := x[0]
	for _, v := range x[1:] {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	for i, v := range x {
		e := math.Exp(v - max)
		x[i] = e
		sum += e
	}
	for i := range x {
		x[i] /= sum
	}
}

// Sigmoid computes the logistic function 1 / (1 + exp(-x))
func Sigmoid(x float64) float64 {
	// Evaluate via exp of a non-positive argument to avoid overflow
	if x >= 0 {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1.0 + e)
}
