package dataset

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sjwhitworth/golearn/base"
)

// #region kinds
// Kind discriminates column storage.
type Kind int

const (
	Float Kind = iota
	Categorical
)

// #endregion kinds

// #region column
// Column is a single named column of a Table.
type Column struct {
	Name   string
	Kind   Kind
	Floats []float64 // populated when Kind == Float
	Values []string  // populated when Kind == Categorical
	Levels []string  // declared level set for categorical columns
}

// #endregion column

// #region table
// Table is a small in-memory labeled table: one categorical label
// column plus feature columns, fixed row count.
type Table struct {
	label string
	cols  []Column
	rows  int
}

// New creates an empty table whose class column will be named label.
func New(label string) *Table {
	return &Table{label: label, rows: -1}
}

// Label returns the name of the class column.
func (t *Table) Label() string {
	return t.label
}

// NumRows returns the row count (0 for a table with no columns).
func (t *Table) NumRows() int {
	if t.rows < 0 {
		return 0
	}
	return t.rows
}

// NumCols returns the column count.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Columns returns the column list in insertion order.
func (t *Table) Columns() []Column {
	return t.cols
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// #endregion table

// #region add-columns

func (t *Table) checkLen(name string, n int) error {
	if t.rows >= 0 && n != t.rows {
		return fmt.Errorf("column %s has %d rows, table has %d", name, n, t.rows)
	}
	if _, ok := t.Column(name); ok {
		return fmt.Errorf("duplicate column %s", name)
	}
	return nil
}

// AddFloat appends a float column. All columns must agree on length.
func (t *Table) AddFloat(name string, vals []float64) error {
	if err := t.checkLen(name, len(vals)); err != nil {
		return err
	}
	t.cols = append(t.cols, Column{Name: name, Kind: Float, Floats: vals})
	t.rows = len(vals)
	return nil
}

// AddCategorical appends a categorical column. levels declares the
// full level set; when empty it is inferred from the values.
func (t *Table) AddCategorical(name string, vals []string, levels ...string) error {
	if err := t.checkLen(name, len(vals)); err != nil {
		return err
	}
	if len(levels) == 0 {
		levels = distinct(vals)
	}
	t.cols = append(t.cols, Column{Name: name, Kind: Categorical, Values: vals, Levels: levels})
	t.rows = len(vals)
	return nil
}

func distinct(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	var out []string
	for _, v := range vals {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// #endregion add-columns

// #region subset

// Select returns a new table containing the given rows, in order.
// Declared levels are carried over unchanged.
func (t *Table) Select(rows []int) (*Table, error) {
	out := New(t.label)
	for _, c := range t.cols {
		switch c.Kind {
		case Float:
			vals := make([]float64, len(rows))
			for i, r := range rows {
				if r < 0 || r >= t.rows {
					return nil, fmt.Errorf("row %d out of range [0,%d)", r, t.rows)
				}
				vals[i] = c.Floats[r]
			}
			if err := out.AddFloat(c.Name, vals); err != nil {
				return nil, err
			}
		case Categorical:
			vals := make([]string, len(rows))
			for i, r := range rows {
				if r < 0 || r >= t.rows {
					return nil, fmt.Errorf("row %d out of range [0,%d)", r, t.rows)
				}
				vals[i] = c.Values[r]
			}
			if err := out.AddCategorical(c.Name, vals, c.Levels...); err != nil {
				return nil, err
			}
		}
	}
	out.rows = len(rows)
	return out, nil
}

// PruneLevels recomputes every categorical column's level set from the
// values actually present. Required before fitting a sub-sample that
// may have lost a level entirely.
func (t *Table) PruneLevels() {
	for i := range t.cols {
		if t.cols[i].Kind == Categorical {
			t.cols[i].Levels = distinct(t.cols[i].Values)
		}
	}
}

// #endregion subset

// #region golearn-bridge

// Instances converts the table to golearn DenseInstances. Feature
// columns become attributes in insertion order; the label column is
// registered as the class attribute and placed last.
func (t *Table) Instances() (*base.DenseInstances, error) {
	labelCol, ok := t.Column(t.label)
	if !ok {
		return nil, fmt.Errorf("label column %s not present", t.label)
	}
	if labelCol.Kind != Categorical {
		return nil, fmt.Errorf("label column %s must be categorical", t.label)
	}

	ordered := make([]Column, 0, len(t.cols))
	for _, c := range t.cols {
		if c.Name != t.label {
			ordered = append(ordered, c)
		}
	}
	ordered = append(ordered, labelCol)

	inst := base.NewDenseInstances()
	attrs := make([]base.Attribute, len(ordered))
	specs := make([]base.AttributeSpec, len(ordered))
	for i, c := range ordered {
		switch c.Kind {
		case Float:
			attrs[i] = base.NewFloatAttribute(c.Name)
		case Categorical:
			a := base.NewCategoricalAttribute()
			a.SetName(c.Name)
			// Register declared levels so every partition shares the
			// same value encoding.
			for _, lv := range c.Levels {
				a.GetSysValFromString(lv)
			}
			attrs[i] = a
		}
		specs[i] = inst.AddAttribute(attrs[i])
	}
	if err := inst.AddClassAttribute(attrs[len(attrs)-1]); err != nil {
		return nil, fmt.Errorf("set class attribute: %w", err)
	}
	if err := inst.Extend(t.NumRows()); err != nil {
		return nil, fmt.Errorf("allocate %d rows: %w", t.NumRows(), err)
	}

	for i, c := range ordered {
		switch c.Kind {
		case Float:
			for r, v := range c.Floats {
				inst.Set(specs[i], r, base.PackFloatToBytes(v))
			}
		case Categorical:
			for r, v := range c.Values {
				inst.Set(specs[i], r, attrs[i].GetSysValFromString(v))
			}
		}
	}
	return inst, nil
}

// #endregion golearn-bridge

// #region helpers

// Itoa is a convenience for building categorical columns from ints.
func Itoa(vals []int) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.Itoa(v)
	}
	return out
}

// #endregion helpers
