package driver

import (
	"fmt"
	"math/rand"

	"github.com/danielpatrickdp/progressive-sampling/internal/dataset"
	"github.com/danielpatrickdp/progressive-sampling/internal/trainer"
)

// #region types
// Config fixes the experiment grid: the ordered sample-size sequence,
// the number of independent repeats per size, and the single seed the
// whole pipeline derives its randomness from.
type Config struct {
	Sizes   []int
	Repeats int
	Seed    int64
}

// DefaultSizes is the roughly-doubling sequence used by the study.
func DefaultSizes() []int {
	return []int{20, 100, 500, 1000, 2000, 5000}
}

// Validate checks that sizes are positive and strictly increasing and
// the repeat count is positive.
func (c Config) Validate() error {
	if len(c.Sizes) == 0 {
		return fmt.Errorf("no sample sizes configured")
	}
	prev := 0
	for _, s := range c.Sizes {
		if s <= prev {
			return fmt.Errorf("sizes must be positive and strictly increasing, got %v", c.Sizes)
		}
		prev = s
	}
	if c.Repeats < 1 {
		return fmt.Errorf("repeats %d must be positive", c.Repeats)
	}
	return nil
}

// ResultRow is one accuracy observation: the scalar summary of one
// cross-validated fit at one (size, repeat) cell.
type ResultRow struct {
	SampleSize   int
	Repeat       int     // 1-based
	MeanAccuracy float64 // percent, [0,100]
}

// GenFunc supplies the dataset for one (size, repeat) cell: a fresh
// simulated draw, or the repeat-th disjoint partition for real data.
type GenFunc func(size, repeat int) (*dataset.Table, error)

// #endregion types

// #region run

// Run executes the full grid: outer loop over sizes in configured
// order, inner loop over repeats 1..R, one appended row per cell in
// exactly that nested order. Downstream statistics do not depend on
// the order, but reruns under a fixed seed must produce identical
// tables, so the iteration order is part of the contract.
//
// Any generator or trainer error aborts the run; there is no retry
// and no partial table.
func Run(cfg Config, gen GenFunc, tr trainer.Trainer, res trainer.Resampling) ([]ResultRow, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("driver config: %w", err)
	}
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("resampling: %w", err)
	}

	// golearn shuffles cross-validation folds through the package
	// global math/rand source; seeding it here is the only hook that
	// makes the fold assignment reproducible.
	rand.Seed(cfg.Seed)

	rows := make([]ResultRow, 0, len(cfg.Sizes)*cfg.Repeats)
	for _, size := range cfg.Sizes {
		for rep := 1; rep <= cfg.Repeats; rep++ {
			tbl, err := gen(size, rep)
			if err != nil {
				return nil, fmt.Errorf("generate size %d repeat %d: %w", size, rep, err)
			}
			acc, err := tr.CrossValidate(tbl, res)
			if err != nil {
				return nil, fmt.Errorf("train size %d repeat %d: %w", size, rep, err)
			}
			rows = append(rows, ResultRow{SampleSize: size, Repeat: rep, MeanAccuracy: acc})
		}
	}
	return rows, nil
}

// #endregion run
