package aggregate

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/danielpatrickdp/progressive-sampling/internal/driver"
)

func TestSummarizeAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	sizes := []int{20, 100, 500}
	var rows []driver.ResultRow
	for _, s := range sizes {
		for rep := 1; rep <= 30; rep++ {
			rows = append(rows, driver.ResultRow{
				SampleSize:   s,
				Repeat:       rep,
				MeanAccuracy: 50 + 20*rng.Float64(),
			})
		}
	}

	sums := Summarize(rows)
	if len(sums) != len(sizes) {
		t.Fatalf("expected %d summaries, got %d", len(sizes), len(sums))
	}

	for i, s := range sizes {
		sum := sums[i]
		if sum.SampleSize != s {
			t.Fatalf("summary %d: size %d, want %d", i, sum.SampleSize, s)
		}
		// Brute-force recomputation from the ungrouped table
		min, max := math.Inf(1), math.Inf(-1)
		total, n := 0.0, 0
		for _, r := range rows {
			if r.SampleSize != s {
				continue
			}
			min = math.Min(min, r.MeanAccuracy)
			max = math.Max(max, r.MeanAccuracy)
			total += r.MeanAccuracy
			n++
		}
		mean := total / float64(n)
		if sum.Repeats != n {
			t.Fatalf("size %d: repeats %d, want %d", s, sum.Repeats, n)
		}
		if sum.Min != min || sum.Max != max {
			t.Fatalf("size %d: min/max %v/%v, want %v/%v", s, sum.Min, sum.Max, min, max)
		}
		if math.Abs(sum.Mean-mean) > 1e-9 {
			t.Fatalf("size %d: mean %v, want %v", s, sum.Mean, mean)
		}
		if !(sum.Min <= sum.Mean && sum.Mean <= sum.Max) {
			t.Fatalf("size %d: violated Min <= Mean <= Max: %+v", s, sum)
		}
	}
}

func TestSummarizeOrdersUnsortedInput(t *testing.T) {
	rows := []driver.ResultRow{
		{SampleSize: 500, Repeat: 1, MeanAccuracy: 60},
		{SampleSize: 20, Repeat: 1, MeanAccuracy: 50},
		{SampleSize: 100, Repeat: 1, MeanAccuracy: 55},
	}
	sums := Summarize(rows)
	want := []int{20, 100, 500}
	for i, w := range want {
		if sums[i].SampleSize != w {
			t.Fatalf("summary %d: size %d, want %d", i, sums[i].SampleSize, w)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if sums := Summarize(nil); len(sums) != 0 {
		t.Fatalf("expected no summaries, got %v", sums)
	}
}

func withSpread(size int, accs ...float64) []driver.ResultRow {
	rows := make([]driver.ResultRow, len(accs))
	for i, a := range accs {
		rows[i] = driver.ResultRow{SampleSize: size, Repeat: i + 1, MeanAccuracy: a}
	}
	return rows
}

func TestRecommendSmallestStableSize(t *testing.T) {
	var rows []driver.ResultRow
	rows = append(rows, withSpread(20, 40, 60, 50)...)       // sd ≈ 10
	rows = append(rows, withSpread(100, 54, 56, 55)...)      // sd = 1, not < 1
	rows = append(rows, withSpread(500, 55.1, 55.3, 55.2)...) // sd ≈ 0.1
	rows = append(rows, withSpread(1000, 55.4, 55.5, 55.45)...)

	sums := Summarize(rows)
	got, ok := Recommend(sums, DefaultTolerance)
	if !ok {
		t.Fatal("expected a recommendation")
	}
	if got != 500 {
		t.Fatalf("expected 500, got %d", got)
	}
}

func TestRecommendRequiresStableSuccessors(t *testing.T) {
	var rows []driver.ResultRow
	rows = append(rows, withSpread(20, 50.1, 50.2, 50.15)...) // lucky dip
	rows = append(rows, withSpread(100, 40, 60, 50)...)       // unstable again
	rows = append(rows, withSpread(500, 55.1, 55.2, 55.15)...)

	sums := Summarize(rows)
	got, ok := Recommend(sums, DefaultTolerance)
	if !ok {
		t.Fatal("expected a recommendation")
	}
	if got != 500 {
		t.Fatalf("lucky dip at 20 must not win, expected 500, got %d", got)
	}
}

func TestRecommendNoneStable(t *testing.T) {
	var rows []driver.ResultRow
	rows = append(rows, withSpread(20, 40, 60)...)
	rows = append(rows, withSpread(100, 45, 65)...)

	if _, ok := Recommend(Summarize(rows), DefaultTolerance); ok {
		t.Fatal("expected no recommendation when every size is unstable")
	}
}

func TestRecommendSingleRepeatNeverStable(t *testing.T) {
	rows := withSpread(20, 50)
	if _, ok := Recommend(Summarize(rows), DefaultTolerance); ok {
		t.Fatal("a single repeat has no spread estimate and must not qualify")
	}
}
