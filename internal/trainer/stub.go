package trainer

import "github.com/danielpatrickdp/progressive-sampling/internal/dataset"

// #region stub
// Stub is a deterministic Trainer for tests: the injected function
// sees the table's row count and the 1-based call index. Used to
// exercise the evaluation driver without fitting anything.
type Stub struct {
	fn    func(rows, call int) (float64, error)
	calls int
}

// NewStub creates a stub trainer around fn.
func NewStub(fn func(rows, call int) (float64, error)) *Stub {
	return &Stub{fn: fn}
}

// CrossValidate applies the stub function; the resampling spec is
// ignored.
func (s *Stub) CrossValidate(tbl *dataset.Table, _ Resampling) (float64, error) {
	s.calls++
	return s.fn(tbl.NumRows(), s.calls)
}

// Calls reports how many times CrossValidate ran.
func (s *Stub) Calls() int {
	return s.calls
}

// #endregion stub
