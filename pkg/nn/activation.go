package nn

import "fmt"

// Activation selects the elementwise non-linearity applied by a layer
type Activation string

const (
	ActivationReLU      Activation = "relu"
	ActivationIdentity  Activation = "identity"
	ActivationLeakyReLU Activation = "leaky_relu"
)

// leakySlope is the negative-side slope of the leaky_relu activation
const leakySlope = 0.01

// attnLeakySlope is the negative-side slope of the LeakyReLU applied to
// attention logits before softmax
const attnLeakySlope = 0.2

// Valid reports whether the activation name is recognized
func (a Activation) Valid() bool {
	switch a {
	case ActivationReLU, ActivationIdentity, ActivationLeakyReLU:
		return true
	}
	return false
}

// Apply evaluates the activation at x
func (a Activation) Apply(x float64) float64 {
	switch a {
	case ActivationReLU:
		if x < 0 {
			return 0
		}
		return x
	case ActivationLeakyReLU:
		if x < 0 {
			return leakySlope * x
		}
		return x
	default:
		return x
	}
}

// Derivative evaluates the activation's derivative at pre-activation x
func (a Activation) Derivative(x float64) float64 {
	switch a {
	case ActivationReLU:
		if x < 0 {
			return 0
		}
		return 1
	case ActivationLeakyReLU:
		if x < 0 {
			return leakySlope
		}
		return 1
	default:
		return 1
	}
}

// ParseActivation validates a configured activation name
func ParseActivation(name string) (Activation, error) {
	a := Activation(name)
	if !a.Valid() {
		return "", fmt.Errorf("unknown activation %q (want relu, identity or leaky_relu)", name)
	}
	return a, nil
}

// leakyReLU is the attention-logit non-linearity
func leakyReLU(x float64) float64 {
	if x < 0 {
		return attnLeakySlope * x
	}
	return x
}

// leakyReLUDeriv is the derivative of leakyReLU at pre-activation x
func leakyReLUDeriv(x float64) float64 {
	if x < 0 {
		return attnLeakySlope
	}
	return 1
}
