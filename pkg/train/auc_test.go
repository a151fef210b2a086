package train

import (
	"errors"
	"math"
	"testing"
)

func TestAUC(t *testing.T) {
	tests := []struct {
		name   string
		labels []float64
		probs  []float64
		want   float64
	}{
		{
			name:   "perfect separation",
			labels: []float64{0, 0, 1, 1},
			probs:  []float64{0.1, 0.2, 0.8, 0.9},
			want:   1.0,
		},
		{
			name:   "perfectly wrong",
			labels: []float64{1, 1, 0, 0},
			probs:  []float64{0.1, 0.2, 0.8, 0.9},
			want:   0.0,
		},
		{
			name:   "all scores tied",
			labels: []float64{0, 1, 0, 1},
			probs:  []float64{0.5, 0.5, 0.5, 0.5},
			want:   0.5,
		},
		{
			name:   "partial ordering",
			labels: []float64{0, 1, 0, 1},
			probs:  []float64{0.1, 0.4, 0.35, 0.8},
			want:   0.75,
		},
		{
			name:   "single pair",
			labels: []float64{1, 0},
			probs:  []float64{0.6, 0.4},
			want:   1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(tt.labels, tt.probs)
			if err != nil {
				t.Fatalf("AUC failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("AUC = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAUCDegenerateLabels(t *testing.T) {
	for _, labels := range [][]float64{{1, 1, 1}, {0, 0, 0}} {
		_, err := AUC(labels, []float64{0.1, 0.5, 0.9})
		if !errors.Is(err, ErrDegenerateLabels) {
			t.Errorf("labels %v: expected ErrDegenerateLabels, got %v", labels, err)
		}
	}
}

func TestAUCLengthMismatch(t *testing.T) {
	if _, err := AUC([]float64{1, 0}, []float64{0.5}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}
