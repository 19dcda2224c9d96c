package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/progressive-sampling/internal/aggregate"
	"github.com/danielpatrickdp/progressive-sampling/internal/dataset"
	"github.com/danielpatrickdp/progressive-sampling/internal/driver"
	"github.com/danielpatrickdp/progressive-sampling/internal/experiment"
	"github.com/danielpatrickdp/progressive-sampling/internal/report"
	"github.com/danielpatrickdp/progressive-sampling/internal/results"
	"github.com/danielpatrickdp/progressive-sampling/internal/simdata"
	"github.com/danielpatrickdp/progressive-sampling/internal/trainer"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to experiment JSON (defaults used when empty)")
	dbPath := flag.String("db", "", "override results database path")
	modeStr := flag.String("mode", "recompute", "recompute | cached")
	seed := flag.Int64("seed", 0, "override experiment seed (0 keeps config value)")
	sizesStr := flag.String("sizes", "", "override sample sizes, comma separated")
	repeats := flag.Int("repeats", 0, "override repeats per size (0 keeps config value)")
	relevance := flag.Float64("relevance", -1, "override signal relevance (negative keeps config value)")
	interaction := flag.Float64("interaction", 0, "override signal interaction (with -relevance)")
	plotPath := flag.String("plot", "", "override plot output path")
	flag.Parse()

	cfg := experiment.DefaultSimulated()
	if *configPath != "" {
		loaded, err := experiment.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(2)
		}
		cfg = loaded
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *sizesStr != "" {
		sizes, err := parseSizes(*sizesStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse sizes: %v\n", err)
			os.Exit(2)
		}
		cfg.Sizes = sizes
	}
	if *repeats > 0 {
		cfg.Repeats = *repeats
	}
	if *relevance >= 0 {
		cfg.Relevance = *relevance
		cfg.Interaction = *interaction
	}
	if *plotPath != "" {
		cfg.PlotPath = *plotPath
	}

	mode, err := results.ParseMode(*modeStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	os.Exit(run(cfg, mode))
}

// #endregion main

// #region run

func run(cfg experiment.Config, mode results.Mode) int {
	store, err := results.NewStore(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		return 2
	}
	defer store.Close()

	compute := func() ([]driver.ResultRow, error) {
		gen, err := simdata.New(simdata.Config{
			Relevance:   cfg.Relevance,
			Interaction: cfg.Interaction,
		}, uint64(cfg.Seed))
		if err != nil {
			return nil, err
		}
		forest, err := trainer.NewForest(cfg.ForestParams())
		if err != nil {
			return nil, err
		}
		genFn := func(size, repeat int) (*dataset.Table, error) {
			return gen.Generate(size)
		}
		return driver.Run(cfg.DriverConfig(), genFn, forest, cfg.Resampling())
	}

	meta := results.RunMeta{
		Variant: cfg.Variant,
		Seed:    cfg.Seed,
		Sizes:   cfg.Sizes,
		Repeats: cfg.Repeats,
		Notes:   fmt.Sprintf("relevance=%v interaction=%v", cfg.Relevance, cfg.Interaction),
	}
	saved, rows, err := results.Obtain(store, mode, meta, compute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "obtain results: %v\n", err)
		return 1
	}

	fmt.Printf("run %s (%s): %d result rows\n", saved.RunID, saved.Variant, len(rows))
	sums := aggregate.Summarize(rows)
	if err := report.WriteSummary(os.Stdout, sums, cfg.StabilityTol); err != nil {
		fmt.Fprintf(os.Stderr, "write summary: %v\n", err)
		return 1
	}
	if err := report.Plot(rows, cfg.PlotPath); err != nil {
		fmt.Fprintf(os.Stderr, "render plot: %v\n", err)
		return 1
	}
	fmt.Printf("plot written to %s\n", cfg.PlotPath)
	return 0
}

// #endregion run

// #region helpers

func parseSizes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("size %q: %w", p, err)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// #endregion helpers
