package trainer

import (
	"fmt"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/ensemble"
	"github.com/sjwhitworth/golearn/evaluation"
	"github.com/sjwhitworth/golearn/filters"

	"github.com/danielpatrickdp/progressive-sampling/internal/dataset"
)

// #region params
// Params is the single-point random-forest configuration. There is no
// tuning search: one candidate, fixed for the whole experiment.
type Params struct {
	Trees int
	Mtry  int // features considered per split
}

// DefaultParams matches the study configuration (mtry=3).
func DefaultParams() Params {
	return Params{Trees: 500, Mtry: 3}
}

// Validate rejects non-positive forest sizes.
func (p Params) Validate() error {
	if p.Trees < 1 {
		return fmt.Errorf("trees %d must be positive", p.Trees)
	}
	if p.Mtry < 1 {
		return fmt.Errorf("mtry %d must be positive", p.Mtry)
	}
	return nil
}

// #endregion params

// #region forest
// Forest cross-validates a golearn random forest.
type Forest struct {
	params Params
}

// NewForest creates a Forest trainer, failing fast on bad params.
func NewForest(params Params) (*Forest, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("forest params: %w", err)
	}
	return &Forest{params: params}, nil
}

// #endregion forest

// #region cross-validate

// CrossValidate runs repeated k-fold cross-validation and returns the
// mean accuracy percentage over all folds of all repeats. Golearn
// re-shuffles folds on every call, so each repeat is a fresh
// partition; fold shuffling draws from the package-level math/rand
// source, which the caller seeds for reproducibility.
//
// A fold whose training split lacks a label level surfaces as a
// golearn error; it is returned wrapped, never retried here.
func (f *Forest) CrossValidate(tbl *dataset.Table, res Resampling) (float64, error) {
	if err := res.Validate(); err != nil {
		return 0, fmt.Errorf("resampling: %w", err)
	}
	if tbl.NumRows() < res.Folds {
		return 0, fmt.Errorf("%d rows cannot fill %d folds", tbl.NumRows(), res.Folds)
	}

	inst, err := tbl.Instances()
	if err != nil {
		return 0, fmt.Errorf("build instances: %w", err)
	}
	grid, err := discretize(inst)
	if err != nil {
		return 0, err
	}

	var total float64
	var folds int
	for rep := 0; rep < res.Repeats; rep++ {
		cls := ensemble.NewRandomForest(f.params.Trees, f.params.Mtry)
		cms, err := evaluation.GenerateCrossFoldValidationConfusionMatrices(grid, cls, res.Folds)
		if err != nil {
			return 0, fmt.Errorf("cross validation repeat %d: %w", rep+1, err)
		}
		for _, cm := range cms {
			total += evaluation.GetAccuracy(cm)
			folds++
		}
	}
	return 100 * total / float64(folds), nil
}

// discretize bins continuous attributes with ChiMerge; the forest's
// trees split on categorical attributes only.
func discretize(inst *base.DenseInstances) (base.FixedDataGrid, error) {
	floatAttrs := base.NonClassFloatAttributes(inst)
	if len(floatAttrs) == 0 {
		return inst, nil
	}
	filt := filters.NewChiMergeFilter(inst, 0.90)
	for _, a := range floatAttrs {
		filt.AddAttribute(a)
	}
	if err := filt.Train(); err != nil {
		return nil, fmt.Errorf("train discretization filter: %w", err)
	}
	return base.NewLazilyFilteredInstances(inst, filt), nil
}

// #endregion cross-validate
