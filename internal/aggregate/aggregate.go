package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/danielpatrickdp/progressive-sampling/internal/driver"
)

// DefaultTolerance is the stability threshold: one percentage point
// of spread in mean CV accuracy across repeats.
const DefaultTolerance = 1.0

// #region summary
// Summary condenses all repeats at one sample size.
type Summary struct {
	SampleSize int
	Repeats    int
	Min        float64
	Mean       float64
	Max        float64
	StdDev     float64
}

// #endregion summary

// #region summarize

// Summarize groups the result table by sample size and reduces each
// group to min/mean/max/stddev. Pure function; output is ordered by
// ascending sample size regardless of input order.
func Summarize(rows []driver.ResultRow) []Summary {
	bySize := make(map[int][]float64)
	for _, r := range rows {
		bySize[r.SampleSize] = append(bySize[r.SampleSize], r.MeanAccuracy)
	}

	sizes := make([]int, 0, len(bySize))
	for s := range bySize {
		sizes = append(sizes, s)
	}
	sort.Ints(sizes)

	out := make([]Summary, 0, len(sizes))
	for _, s := range sizes {
		accs := bySize[s]
		sum := Summary{
			SampleSize: s,
			Repeats:    len(accs),
			Min:        floats.Min(accs),
			Mean:       stat.Mean(accs, nil),
			Max:        floats.Max(accs),
		}
		if len(accs) > 1 {
			sum.StdDev = stat.StdDev(accs, nil)
		}
		out = append(out, sum)
	}
	return out
}

// #endregion summarize

// #region recommend

// Recommend applies the stability stopping rule: the smallest sample
// size whose accuracy spread (sample standard deviation across
// repeats) is below tol, with every larger size also below tol. The
// second condition guards against a lucky dip at a small size.
// Returns false when no size qualifies.
func Recommend(sums []Summary, tol float64) (int, bool) {
	for i, s := range sums {
		if s.StdDev >= tol || s.Repeats < 2 {
			continue
		}
		stable := true
		for _, later := range sums[i+1:] {
			if later.StdDev >= tol || later.Repeats < 2 {
				stable = false
				break
			}
		}
		if stable {
			return s.SampleSize, true
		}
	}
	return 0, false
}

// #endregion recommend
