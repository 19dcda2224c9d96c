package trainer

import (
	"fmt"

	"github.com/danielpatrickdp/progressive-sampling/internal/dataset"
)

// #region resampling
// Resampling describes a repeated k-fold cross-validation scheme.
type Resampling struct {
	Folds   int // k
	Repeats int // full re-partition cycles
}

// DefaultResampling is the scheme used for simulated data.
func DefaultResampling() Resampling {
	return Resampling{Folds: 5, Repeats: 6}
}

// WineResampling is the lighter scheme used for the wine dataset.
func WineResampling() Resampling {
	return Resampling{Folds: 5, Repeats: 2}
}

// Validate rejects non-positive fold or repeat counts.
func (r Resampling) Validate() error {
	if r.Folds < 2 {
		return fmt.Errorf("folds %d must be at least 2", r.Folds)
	}
	if r.Repeats < 1 {
		return fmt.Errorf("repeats %d must be positive", r.Repeats)
	}
	return nil
}

// #endregion resampling

// #region trainer
// Trainer fits a fixed model family on a table under a resampling
// scheme and reports the mean accuracy percentage in [0,100] across
// all folds and repeats. Implementations do not retry on failure.
type Trainer interface {
	CrossValidate(tbl *dataset.Table, res Resampling) (float64, error)
}

// #endregion trainer
