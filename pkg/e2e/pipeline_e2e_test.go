package e2e

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/graphnet/pkg/dataset"
	"github.com/dd0wney/graphnet/pkg/metrics"
	"github.com/dd0wney/graphnet/pkg/model"
	"github.com/dd0wney/graphnet/pkg/train"
)

// TestCompleteScoringWorkflow exercises the full pipeline end to end:
// write a corpus to disk in the external file formats, load it, train,
// checkpoint, reload, and evaluate on a held-out split.
func TestCompleteScoringWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	t.Log("=== E2E Test: Complete Scoring Workflow ===")

	rng := rand.New(rand.NewSource(2024))
	trainDir := writeCorpus(t, rng, 40)
	testDir := writeCorpus(t, rng, 16)

	cfg := model.Config{
		FeatureWidth: 8,
		BiGCN:        model.LayerConfig{InDim: 8, OutDim: 12, Activation: "relu"},
		GAT:          model.LayerConfig{InDim: 12, OutDim: 12, Activation: "relu"},
		Head:         model.HeadConfig{HiddenDim: 16, NClasses: 1},
	}

	t.Log("Step 1: Loading training corpus...")
	trainSamples, err := dataset.Load(trainDir, cfg.FeatureWidth)
	require.NoError(t, err)
	require.Len(t, trainSamples, 40)
	trainGraphs, trainLabels := dataset.Split(trainSamples)

	t.Log("Step 2: Training...")
	m, err := model.New(cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	trainer := train.New(m, train.Options{
		Epochs:       25,
		BatchSize:    8,
		LearningRate: 0.01,
		Seed:         7,
	}, logger, metrics.NewRegistry())

	result, err := trainer.Run(context.Background(), trainGraphs, trainLabels)
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Less(t, result.FinalLoss, result.LossByEpoch[0],
		"training should reduce loss on a separable corpus")

	t.Log("Step 3: Checkpoint round-trip...")
	ckpt := filepath.Join(t.TempDir(), "model.ckpt")
	require.NoError(t, m.Save(ckpt))
	restored, err := model.Load(ckpt)
	require.NoError(t, err)

	t.Log("Step 4: Held-out evaluation...")
	testSamples, err := dataset.Load(testDir, cfg.FeatureWidth)
	require.NoError(t, err)
	testGraphs, testLabels := dataset.Split(testSamples)

	probs, err := train.Predict(restored, testGraphs, 8)
	require.NoError(t, err)
	require.Len(t, probs, len(testGraphs))

	// Restored model must score identically to the trained one
	original, err := train.Predict(m, testGraphs, 8)
	require.NoError(t, err)
	for i := range probs {
		assert.InDelta(t, original[i], probs[i], 1e-12)
	}

	auc, err := train.AUC(testLabels, probs)
	require.NoError(t, err)
	t.Logf("✓ Held-out AUC: %.4f", auc)
	assert.Greater(t, auc, 0.5, "trained model should beat chance on a separable corpus")
}

// writeCorpus writes a labeled synthetic corpus in the external file
// formats: target.csv plus one <id>.edgelist per company. Positives
// are dense heavy-weight hubs, negatives sparse light chains, so the
// label is learnable from structure.
func writeCorpus(t *testing.T, rng *rand.Rand, n int) string {
	t.Helper()
	dir := t.TempDir()

	target := "company_id,target\n"
	for i := 0; i < n; i++ {
		label := i % 2
		size := 10 + rng.Intn(6)

		var edgelist string
		if label == 1 {
			for v := 1; v < size; v++ {
				edgelist += fmt.Sprintf("%d,0,%.3f\n", v, 3+rng.Float64())
			}
		} else {
			for v := 1; v < size; v++ {
				edgelist += fmt.Sprintf("%d,%d,%.3f\n", v-1, v, 0.2*rng.Float64())
			}
		}

		require.NoError(t, os.WriteFile(
			filepath.Join(dir, fmt.Sprintf("%d.edgelist", i)), []byte(edgelist), 0644))
		target += fmt.Sprintf("%d,%d\n", i, label)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target.csv"), []byte(target), 0644))
	return dir
}
