package results

import (
	"fmt"

	"github.com/danielpatrickdp/progressive-sampling/internal/driver"
)

// #region mode
// Mode selects between the two explicit ways of obtaining a result
// table. There is deliberately no automatic staleness check.
type Mode int

const (
	// Recompute runs the experiment and persists a new run.
	Recompute Mode = iota
	// LoadCached serves the latest stored run verbatim and fails when
	// none exists; it never falls back to recomputation.
	LoadCached
)

// ParseMode maps the cmd-line spelling to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "recompute":
		return Recompute, nil
	case "cached":
		return LoadCached, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want recompute or cached)", s)
}

// #endregion mode

// #region obtain

// Obtain resolves a result table according to mode. compute is only
// invoked under Recompute; its output is saved before being returned,
// and the access is recorded in the run log either way.
func Obtain(store *Store, mode Mode, meta RunMeta, compute func() ([]driver.ResultRow, error)) (RunMeta, []driver.ResultRow, error) {
	switch mode {
	case Recompute:
		rows, err := compute()
		if err != nil {
			return RunMeta{}, nil, err
		}
		saved, err := store.SaveRun(meta, rows)
		if err != nil {
			return RunMeta{}, nil, fmt.Errorf("save run: %w", err)
		}
		if err := store.LogAccess(saved.RunID, "recompute", ""); err != nil {
			return RunMeta{}, nil, err
		}
		return saved, rows, nil

	case LoadCached:
		saved, rows, err := store.LoadLatest(meta.Variant)
		if err != nil {
			return RunMeta{}, nil, fmt.Errorf("load cached run: %w", err)
		}
		if err := store.LogAccess(saved.RunID, "cached", ""); err != nil {
			return RunMeta{}, nil, err
		}
		return saved, rows, nil
	}
	return RunMeta{}, nil, fmt.Errorf("unknown mode %d", mode)
}

// #endregion obtain
