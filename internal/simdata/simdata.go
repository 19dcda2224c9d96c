package simdata

import (
	"fmt"
	"strconv"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/danielpatrickdp/progressive-sampling/internal/dataset"
)

// #region config
// Config holds the simulation parameters. Relevance controls how far
// the signal feature's success probability moves from 0.5 per label
// class; Interaction adds a further offset that flips with the sign
// of x1.
type Config struct {
	Relevance   float64
	Interaction float64
}

// DefaultConfig returns the weak-signal setting used by the study.
func DefaultConfig() Config {
	return Config{Relevance: 0.1, Interaction: 0}
}

// probs returns the four subpopulation success probabilities for
// (y=1,x1<0), (y=1,x1>=0), (y=0,x1<0), (y=0,x1>=0).
func (c Config) probs() [4]float64 {
	return [4]float64{
		0.5 - c.Relevance - c.Interaction,
		0.5 - c.Relevance + c.Interaction,
		0.5 + c.Relevance - c.Interaction,
		0.5 + c.Relevance + c.Interaction,
	}
}

// Validate rejects parameter combinations that would push any
// subpopulation probability outside [0,1]. Probabilities are never
// clamped.
func (c Config) Validate() error {
	if c.Relevance < 0 || c.Relevance >= 0.5 {
		return fmt.Errorf("relevance %v outside [0, 0.5)", c.Relevance)
	}
	for _, p := range c.probs() {
		if p < 0 || p > 1 {
			return fmt.Errorf("relevance %v and interaction %v give probability %v outside [0,1]",
				c.Relevance, c.Interaction, p)
		}
	}
	return nil
}

// #endregion config

// #region generator
// Generator draws synthetic binary-label datasets with a weak,
// x1-conditioned signal in feature x2.
type Generator struct {
	config Config
	src    rand.Source
	rng    *rand.Rand
}

// New creates a seeded generator, failing fast on degenerate
// probabilities.
func New(config Config, seed uint64) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("simdata config: %w", err)
	}
	src := rand.NewSource(seed)
	return &Generator{config: config, src: src, rng: rand.New(src)}, nil
}

// #endregion generator

// #region generate

// Generate draws a fresh dataset of exactly n rows and 6 columns:
// categorical label in {0,1}, float x1, categorical signal x2 in
// {0,1}, and three categorical noise features x3..x5.
func (g *Generator) Generate(n int) (*dataset.Table, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sample size %d must be positive", n)
	}

	coin := distuv.Bernoulli{P: 0.5, Src: g.src}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: g.src}
	p := g.config.probs()

	label := make([]string, n)
	x1 := make([]float64, n)
	x2 := make([]string, n)
	x3 := make([]int, n)
	x4 := make([]int, n)
	x5 := make([]int, n)

	for i := 0; i < n; i++ {
		y := int(coin.Rand())
		label[i] = strconv.Itoa(y)
		x1[i] = normal.Rand()

		// Four disjoint subpopulations over label × sign(x1).
		var prob float64
		switch {
		case y == 1 && x1[i] < 0:
			prob = p[0]
		case y == 1:
			prob = p[1]
		case x1[i] < 0:
			prob = p[2]
		default:
			prob = p[3]
		}
		x2[i] = strconv.Itoa(int(distuv.Bernoulli{P: prob, Src: g.src}.Rand()))

		x3[i] = g.rng.Intn(4) + 1
		x4[i] = g.rng.Intn(10) + 1
		x5[i] = g.rng.Intn(20) + 1
	}

	tbl := dataset.New("y")
	if err := tbl.AddCategorical("y", label, "0", "1"); err != nil {
		return nil, err
	}
	if err := tbl.AddFloat("x1", x1); err != nil {
		return nil, err
	}
	if err := tbl.AddCategorical("x2", x2, "0", "1"); err != nil {
		return nil, err
	}
	if err := tbl.AddCategorical("x3", dataset.Itoa(x3), levels(4)...); err != nil {
		return nil, err
	}
	if err := tbl.AddCategorical("x4", dataset.Itoa(x4), levels(10)...); err != nil {
		return nil, err
	}
	if err := tbl.AddCategorical("x5", dataset.Itoa(x5), levels(20)...); err != nil {
		return nil, err
	}
	return tbl, nil
}

func levels(k int) []string {
	vals := make([]int, k)
	for i := range vals {
		vals[i] = i + 1
	}
	return dataset.Itoa(vals)
}

// #endregion generate
