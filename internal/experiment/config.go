package experiment

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/progressive-sampling/internal/aggregate"
	"github.com/danielpatrickdp/progressive-sampling/internal/driver"
	"github.com/danielpatrickdp/progressive-sampling/internal/trainer"
	"github.com/danielpatrickdp/progressive-sampling/internal/wine"
)

// #region config
// Config is the JSON-serializable description of one full experiment
// run, loadable from a file so runs are repeatable from a single
// artifact.
type Config struct {
	Variant      string  `json:"variant"` // "simulated" | "winequality"
	Sizes        []int   `json:"sizes"`
	Repeats      int     `json:"repeats"`
	Seed         int64   `json:"seed"`
	Relevance    float64 `json:"relevance"`
	Interaction  float64 `json:"interaction"`
	Folds        int     `json:"folds"`
	FoldRepeats  int     `json:"fold_repeats"`
	Trees        int     `json:"trees"`
	Mtry         int     `json:"mtry"`
	StabilityTol float64 `json:"stability_tol"`
	DBPath       string  `json:"db_path"`
	PlotPath     string  `json:"plot_path"`
	DataPath     string  `json:"data_path"` // wine CSV location
	DataURL      string  `json:"data_url"`  // wine CSV source
}

// DefaultSimulated returns the simulated-variant defaults.
func DefaultSimulated() Config {
	return Config{
		Variant:      "simulated",
		Sizes:        driver.DefaultSizes(),
		Repeats:      30,
		Seed:         20200524,
		Relevance:    0.1,
		Interaction:  0,
		Folds:        5,
		FoldRepeats:  6,
		Trees:        500,
		Mtry:         3,
		StabilityTol: aggregate.DefaultTolerance,
		DBPath:       "progsample.db",
		PlotPath:     "accuracy_vs_size.png",
	}
}

// DefaultWine returns the wine-variant defaults. Fewer repeats and
// fold cycles: the source table is finite and partitions are disjoint.
func DefaultWine() Config {
	c := DefaultSimulated()
	c.Variant = "winequality"
	c.Sizes = []int{20, 100, 200, 400}
	c.Repeats = 10
	c.FoldRepeats = 2
	c.PlotPath = "wine_accuracy_vs_size.png"
	c.DataPath = "winequality-white.csv"
	c.DataURL = wine.DefaultURL
	return c
}

// #endregion config

// #region load

// Load reads and parses a JSON experiment config.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// #endregion load

// #region derived

// DriverConfig extracts the evaluation-driver view of the config.
func (c Config) DriverConfig() driver.Config {
	return driver.Config{Sizes: c.Sizes, Repeats: c.Repeats, Seed: c.Seed}
}

// Resampling extracts the cross-validation scheme.
func (c Config) Resampling() trainer.Resampling {
	return trainer.Resampling{Folds: c.Folds, Repeats: c.FoldRepeats}
}

// ForestParams extracts the fixed model configuration.
func (c Config) ForestParams() trainer.Params {
	return trainer.Params{Trees: c.Trees, Mtry: c.Mtry}
}

// #endregion derived
