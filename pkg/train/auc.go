package train

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDegenerateLabels is returned when AUC is requested for a sample
// containing only one class
var ErrDegenerateLabels = errors.New("AUC undefined: need both positive and negative labels")

// AUC computes the ROC-AUC of probability scores against binary
// labels via the rank-sum statistic; tied scores receive their average
// rank. Equivalent to the probability that a random positive is
// scored above a random negative.
func AUC(labels, probs []float64) (float64, error) {
	if len(labels) != len(probs) {
		return 0, fmt.Errorf("got %d labels for %d probabilities", len(labels), len(probs))
	}

	n := len(labels)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return probs[order[a]] < probs[order[b]]
	})

	// Assign average ranks across tie groups
	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && probs[order[j]] == probs[order[i]] {
			j++
		}
		// 1-based ranks i+1..j averaged
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		i = j
	}

	nPos := 0
	sumPos := 0.0
	for i, y := range labels {
		if y == 1 {
			nPos++
			sumPos += ranks[i]
		}
	}
	nNeg := n - nPos
	if nPos == 0 || nNeg == 0 {
		return 0, ErrDegenerateLabels
	}

	return (sumPos - float64(nPos)*float64(nPos+1)/2) / (float64(nPos) * float64(nNeg)), nil
}
