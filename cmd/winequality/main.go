package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/exp/rand"

	"github.com/danielpatrickdp/progressive-sampling/internal/aggregate"
	"github.com/danielpatrickdp/progressive-sampling/internal/dataset"
	"github.com/danielpatrickdp/progressive-sampling/internal/driver"
	"github.com/danielpatrickdp/progressive-sampling/internal/experiment"
	"github.com/danielpatrickdp/progressive-sampling/internal/report"
	"github.com/danielpatrickdp/progressive-sampling/internal/results"
	"github.com/danielpatrickdp/progressive-sampling/internal/trainer"
	"github.com/danielpatrickdp/progressive-sampling/internal/wine"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to experiment JSON (defaults used when empty)")
	dbPath := flag.String("db", "", "override results database path")
	modeStr := flag.String("mode", "recompute", "recompute | cached")
	dataPath := flag.String("data", "", "override wine CSV path")
	fetch := flag.Bool("fetch", false, "download the CSV to -data when missing")
	seed := flag.Int64("seed", 0, "override experiment seed (0 keeps config value)")
	plotPath := flag.String("plot", "", "override plot output path")
	flag.Parse()

	cfg := experiment.DefaultWine()
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
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *plotPath != "" {
		cfg.PlotPath = *plotPath
	}

	mode, err := results.ParseMode(*modeStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if *fetch && mode == results.Recompute {
		if _, err := wine.Fetch(cfg.DataURL, cfg.DataPath); err != nil {
			fmt.Fprintf(os.Stderr, "fetch dataset: %v\n", err)
			os.Exit(1)
		}
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
		tbl, err := wine.Load(cfg.DataPath)
		if err != nil {
			return nil, err
		}
		forest, err := trainer.NewForest(cfg.ForestParams())
		if err != nil {
			return nil, err
		}

		// One disjoint partition set per sample size; repeat j trains
		// on the j-th partition, so repeats at a size never share rows.
		rng := rand.New(rand.NewSource(uint64(cfg.Seed)))
		partitions := make(map[int][]*dataset.Table, len(cfg.Sizes))
		for _, size := range cfg.Sizes {
			parts, err := wine.Partition(tbl, size, cfg.Repeats, rng)
			if err != nil {
				return nil, fmt.Errorf("partition size %d: %w", size, err)
			}
			partitions[size] = parts
		}

		genFn := func(size, repeat int) (*dataset.Table, error) {
			return partitions[size][repeat-1], nil
		}
		return driver.Run(cfg.DriverConfig(), genFn, forest, cfg.Resampling())
	}

	meta := results.RunMeta{
		Variant: cfg.Variant,
		Seed:    cfg.Seed,
		Sizes:   cfg.Sizes,
		Repeats: cfg.Repeats,
		Notes:   fmt.Sprintf("data=%s", cfg.DataPath),
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
