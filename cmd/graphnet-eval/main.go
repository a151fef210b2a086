package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/graphnet/pkg/dataset"
	"github.com/dd0wney/graphnet/pkg/metrics"
	"github.com/dd0wney/graphnet/pkg/model"
	"github.com/dd0wney/graphnet/pkg/train"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	riskStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func main() {
	dataDir := flag.String("data", "./data/test", "Directory with target.csv and *.edgelist files")
	checkpoint := flag.String("checkpoint", "./model.ckpt", "Checkpoint to evaluate")
	batchSize := flag.Int("batch", 32, "Minibatch size for forward passes")
	showAll := flag.Bool("all", false, "Print every company score, not just the summary")
	metricsAddr := flag.String("metrics", "", "Address to expose Prometheus metrics on (disabled when empty)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	reg := metrics.NewRegistry()
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
	}

	m, err := model.Load(*checkpoint)
	if err != nil {
		logger.Error("failed to load checkpoint", "error", err)
		os.Exit(1)
	}

	samples, err := dataset.Load(*dataDir, m.Config().FeatureWidth)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	graphs, labels := dataset.Split(samples)

	auc, probs, evalErr := train.Evaluate(m, graphs, labels, *batchSize, reg)
	if evalErr != nil {
		// AUC needs both classes present; the per-company scores are
		// still worth printing when only it is unavailable.
		probs, err = train.Predict(m, graphs, *batchSize)
		if err != nil {
			logger.Error("scoring failed", "error", err)
			os.Exit(1)
		}
	}

	fmt.Println(titleStyle.Render("graphnet evaluation"))
	fmt.Printf("%s %s\n", labelStyle.Render("checkpoint:"), valueStyle.Render(*checkpoint))
	fmt.Printf("%s %s\n", labelStyle.Render("companies: "), valueStyle.Render(fmt.Sprint(len(samples))))

	if evalErr != nil {
		fmt.Printf("%s %v\n", labelStyle.Render("roc_auc:   "), evalErr)
	} else {
		fmt.Printf("%s %s\n", labelStyle.Render("roc_auc:   "), valueStyle.Render(fmt.Sprintf("%.4f", auc)))
	}

	if *showAll {
		fmt.Println()
		for i, s := range samples {
			line := fmt.Sprintf("company %-8s label=%.0f p(default)=%.4f", s.CompanyID, s.Label, probs[i])
			if probs[i] >= 0.5 {
				line = riskStyle.Render(line)
			}
			fmt.Println(line)
		}
	}
}
