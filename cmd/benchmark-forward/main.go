package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/dd0wney/graphnet/pkg/graph"
	"github.com/dd0wney/graphnet/pkg/model"
	"github.com/dd0wney/graphnet/pkg/train"
)

func main() {
	nGraphs := flag.Int("graphs", 1000, "Number of synthetic graphs")
	meanNodes := flag.Int("nodes", 60, "Mean nodes per graph")
	batchSize := flag.Int("batch", 32, "Minibatch size")
	passes := flag.Int("passes", 10, "Forward passes over the corpus")
	seed := flag.Int64("seed", 1, "Seed for graph generation and weights")
	flag.Parse()

	fmt.Printf("🔥 graphnet Forward-Pass Benchmark\n")
	fmt.Printf("==================================\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Graphs: %d\n", *nGraphs)
	fmt.Printf("  Mean nodes: %d\n", *meanNodes)
	fmt.Printf("  Batch size: %d\n", *batchSize)
	fmt.Printf("  Passes: %d\n\n", *passes)

	rng := rand.New(rand.NewSource(*seed))
	cfg := model.DefaultConfig()

	fmt.Printf("📂 Generating synthetic graphs...\n")
	graphs := make([]*graph.Graph, *nGraphs)
	totalEdges := 0
	for i := range graphs {
		size := cfg.FeatureWidth + rng.Intn((*meanNodes)*2)
		edges := make([]graph.EdgeTriple, 0, size)
		for v := 1; v < size; v++ {
			edges = append(edges, graph.EdgeTriple{
				Src:    rng.Intn(v),
				Dst:    v,
				Weight: rng.Float64() * 3,
			})
		}
		g, err := graph.Build(edges, cfg.FeatureWidth)
		if err != nil {
			log.Fatalf("Failed to build graph: %v", err)
		}
		graphs[i] = g
		totalEdges += g.NumEdges()
	}
	fmt.Printf("  %d graphs, %d directed edges\n\n", len(graphs), totalEdges)

	m, err := model.New(cfg, rng)
	if err != nil {
		log.Fatalf("Failed to build model: %v", err)
	}

	fmt.Printf("⚡ Running forward passes...\n")
	start := time.Now()
	for p := 0; p < *passes; p++ {
		if _, err := train.Predict(m, graphs, *batchSize); err != nil {
			log.Fatalf("Forward pass failed: %v", err)
		}
	}
	elapsed := time.Since(start)

	scored := *nGraphs * *passes
	fmt.Printf("\nResults:\n")
	fmt.Printf("  Total: %d graph scorings in %.2fs\n", scored, elapsed.Seconds())
	fmt.Printf("  Throughput: %.0f graphs/sec\n", float64(scored)/elapsed.Seconds())
	fmt.Printf("  Latency: %.3fms per batch\n",
		elapsed.Seconds()*1000/float64(*passes*((*nGraphs+*batchSize-1)/(*batchSize))))
}
