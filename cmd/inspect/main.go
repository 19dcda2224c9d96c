package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/progressive-sampling/internal/aggregate"
	"github.com/danielpatrickdp/progressive-sampling/internal/report"
	"github.com/danielpatrickdp/progressive-sampling/internal/results"
)

// #region main

func main() {
	dbPath := flag.String("db", "progsample.db", "path to results database")
	runID := flag.String("run", "", "summarize a specific run (empty lists runs)")
	limit := flag.Int("limit", 20, "max runs to list")
	tol := flag.Float64("tol", aggregate.DefaultTolerance, "stability tolerance in accuracy points")
	flag.Parse()

	store, err := results.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(2)
	}
	defer store.Close()

	if *runID != "" {
		os.Exit(showRun(store, *runID, *tol))
	}
	os.Exit(listRuns(store, *limit))
}

// #endregion main

// #region list

func listRuns(store *results.Store, limit int) int {
	runs, err := store.ListRuns(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list runs: %v\n", err)
		return 1
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return 0
	}
	for _, r := range runs {
		fmt.Printf("%s  %-12s seed=%-10d sizes=%v repeats=%d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.Variant, r.Seed, r.Sizes, r.Repeats, r.RunID)
	}
	return 0
}

// #endregion list

// #region show

func showRun(store *results.Store, runID string, tol float64) int {
	rows, err := store.LoadRun(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load run: %v\n", err)
		return 1
	}
	sums := aggregate.Summarize(rows)
	if err := report.WriteSummary(os.Stdout, sums, tol); err != nil {
		fmt.Fprintf(os.Stderr, "write summary: %v\n", err)
		return 1
	}
	return 0
}

// #endregion show
