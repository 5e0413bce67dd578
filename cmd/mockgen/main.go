package main

import (
	"fmt"
	"os"
	"time"

	"ditztime/cmd/mockgen/engine"

	flag "github.com/spf13/pflag"
)

func main() {
	scenario := flag.String("scenario", "mild", "Scenario to generate: mild, night, chaos")
	distribution := flag.String("distribution", "uniform", "Session length distribution: uniform, weibull")
	outDir := flag.StringP("out", "o", "./.cache/issues", "Output directory for mock issue files")
	count := flag.Int("count", 200, "Number of issues to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:     *scenario,
		Distribution: *distribution,
		Count:        *count,
		Now:          time.Now(),
		Seed:         *seed,
	}

	fmt.Printf("Generating scenario '%s' (Distribution: %s, Count: %d, Seed: %d) to %s...\n", cfg.Scenario, cfg.Distribution, cfg.Count, cfg.Seed, *outDir)

	issues := engine.Generate(cfg)
	if err := engine.Save(*outDir, issues); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
}
