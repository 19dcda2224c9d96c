package simdata

import (
	"math"
	"testing"
)

func mustGenerator(t *testing.T, config Config, seed uint64) *Generator {
	t.Helper()
	g, err := New(config, seed)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestGenerateShape(t *testing.T) {
	g := mustGenerator(t, DefaultConfig(), 1)
	for _, n := range []int{1, 20, 500} {
		tbl, err := g.Generate(n)
		if err != nil {
			t.Fatalf("Generate(%d): %v", n, err)
		}
		if tbl.NumRows() != n {
			t.Fatalf("expected %d rows, got %d", n, tbl.NumRows())
		}
		if tbl.NumCols() != 6 {
			t.Fatalf("expected 6 columns, got %d", tbl.NumCols())
		}
		y, ok := tbl.Column("y")
		if !ok {
			t.Fatal("missing label column")
		}
		for _, v := range y.Values {
			if v != "0" && v != "1" {
				t.Fatalf("label value %q outside {0,1}", v)
			}
		}
	}
}

func TestGenerateRejectsNonPositiveSize(t *testing.T) {
	g := mustGenerator(t, DefaultConfig(), 1)
	for _, n := range []int{0, -5} {
		if _, err := g.Generate(n); err == nil {
			t.Fatalf("expected error for n=%d", n)
		}
	}
}

func TestDegenerateProbabilityRejected(t *testing.T) {
	cases := []Config{
		{Relevance: -0.01},
		{Relevance: 0.5},
		{Relevance: 0.7},
		{Relevance: 0.4, Interaction: 0.2}, // 0.5+0.4+0.2 > 1
		{Relevance: 0.1, Interaction: -0.5},
	}
	for _, c := range cases {
		if _, err := New(c, 1); err == nil {
			t.Fatalf("expected rejection for config %+v", c)
		}
	}
}

// ratesOf returns the empirical x2 success rate per (label, sign(x1))
// subpopulation in the order (1,neg), (1,nonneg), (0,neg), (0,nonneg).
func ratesOf(t *testing.T, g *Generator, n int) [4]float64 {
	t.Helper()
	tbl, err := g.Generate(n)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	y, _ := tbl.Column("y")
	x1, _ := tbl.Column("x1")
	x2, _ := tbl.Column("x2")

	var hits, total [4]float64
	for i := 0; i < tbl.NumRows(); i++ {
		var k int
		switch {
		case y.Values[i] == "1" && x1.Floats[i] < 0:
			k = 0
		case y.Values[i] == "1":
			k = 1
		case x1.Floats[i] < 0:
			k = 2
		default:
			k = 3
		}
		total[k]++
		if x2.Values[i] == "1" {
			hits[k]++
		}
	}
	var rates [4]float64
	for k := range rates {
		if total[k] == 0 {
			t.Fatalf("empty subpopulation %d", k)
		}
		rates[k] = hits[k] / total[k]
	}
	return rates
}

func TestNoSignalConvergesToHalf(t *testing.T) {
	g := mustGenerator(t, Config{Relevance: 0, Interaction: 0}, 7)
	rates := ratesOf(t, g, 40000)
	for k, r := range rates {
		if math.Abs(r-0.5) > 0.02 {
			t.Fatalf("subpopulation %d rate %v not near 0.5", k, r)
		}
	}
}

func TestRelevanceShiftsSubpopulations(t *testing.T) {
	g := mustGenerator(t, Config{Relevance: 0.1, Interaction: 0}, 7)
	rates := ratesOf(t, g, 40000)
	want := [4]float64{0.4, 0.4, 0.6, 0.6}
	for k, r := range rates {
		if math.Abs(r-want[k]) > 0.02 {
			t.Fatalf("subpopulation %d rate %v, want near %v", k, r, want[k])
		}
	}
}

func TestInteractionSplitsOnSign(t *testing.T) {
	g := mustGenerator(t, Config{Relevance: 0.1, Interaction: 0.05}, 7)
	rates := ratesOf(t, g, 40000)
	want := [4]float64{0.35, 0.45, 0.55, 0.65}
	for k, r := range rates {
		if math.Abs(r-want[k]) > 0.02 {
			t.Fatalf("subpopulation %d rate %v, want near %v", k, r, want[k])
		}
	}
}

func TestSameSeedSameData(t *testing.T) {
	a := mustGenerator(t, DefaultConfig(), 42)
	b := mustGenerator(t, DefaultConfig(), 42)
	ta, err := a.Generate(200)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	tb, err := b.Generate(200)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	ya, _ := ta.Column("y")
	yb, _ := tb.Column("y")
	for i := range ya.Values {
		if ya.Values[i] != yb.Values[i] {
			t.Fatalf("label mismatch at row %d with identical seeds", i)
		}
	}
	xa, _ := ta.Column("x1")
	xb, _ := tb.Column("x1")
	for i := range xa.Floats {
		if xa.Floats[i] != xb.Floats[i] {
			t.Fatalf("x1 mismatch at row %d with identical seeds", i)
		}
	}
}
