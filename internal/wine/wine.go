package wine

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"golang.org/x/exp/rand"

	"github.com/danielpatrickdp/progressive-sampling/internal/dataset"
)

// DefaultURL is the canonical location of the white-wine quality CSV.
const DefaultURL = "https://archive.ics.uci.edu/ml/machine-learning-databases/wine-quality/winequality-white.csv"

// LabelColumn is the name of the derived 3-level quality label.
const LabelColumn = "quality_label"

// #region fetch

// Fetch downloads the raw dataset to cachePath unless it is already
// present, and returns the path. The download happens at most once;
// later runs read the cached copy.
func Fetch(url, cachePath string) (string, error) {
	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, nil
	}
	resp, err := http.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %s", url, resp.Status)
	}
	tmp := cachePath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, cachePath); err != nil {
		return "", fmt.Errorf("rename %s: %w", cachePath, err)
	}
	return cachePath, nil
}

// #endregion fetch

// #region load

// Load parses the semicolon-delimited wine CSV, derives the 3-level
// label from the quality score (<6 bad, ==6 normal, >6 good) and
// drops the quality column. The returned table is not mutated again.
func Load(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	tbl, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return tbl, nil
}

func parse(r io.Reader) (*dataset.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	qualityIdx := -1
	for i, name := range header {
		if name == "quality" {
			qualityIdx = i
		}
	}
	if qualityIdx < 0 {
		return nil, fmt.Errorf("no quality column in header %v", header)
	}

	features := make([][]float64, len(header))
	var labels []string
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		for i, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", row, header[i], err)
			}
			if i == qualityIdx {
				labels = append(labels, deriveLabel(v))
			} else {
				features[i] = append(features[i], v)
			}
		}
		row++
	}

	tbl := dataset.New(LabelColumn)
	if err := tbl.AddCategorical(LabelColumn, labels, "bad", "normal", "good"); err != nil {
		return nil, err
	}
	for i, name := range header {
		if i == qualityIdx {
			continue
		}
		if err := tbl.AddFloat(name, features[i]); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

func deriveLabel(quality float64) string {
	switch {
	case quality < 6:
		return "bad"
	case quality == 6:
		return "normal"
	default:
		return "good"
	}
}

// #endregion load

// #region partition

// Partition draws size*r distinct rows from tbl without replacement
// and assigns each drawn row uniformly at random to one of r disjoint
// groups, so repeated fits never share a row. Group sizes are
// binomial around size. Each group has its unused categorical levels
// pruned before it is returned.
func Partition(tbl *dataset.Table, size, r int, rng *rand.Rand) ([]*dataset.Table, error) {
	if size <= 0 || r <= 0 {
		return nil, fmt.Errorf("size %d and partitions %d must be positive", size, r)
	}
	total := size * r
	if total > tbl.NumRows() {
		return nil, fmt.Errorf("need %d rows (%d x %d), table has %d", total, size, r, tbl.NumRows())
	}

	drawn := rng.Perm(tbl.NumRows())[:total]
	groups := make([][]int, r)
	for _, row := range drawn {
		g := rng.Intn(r)
		groups[g] = append(groups[g], row)
	}

	out := make([]*dataset.Table, r)
	for g, rows := range groups {
		sub, err := tbl.Select(rows)
		if err != nil {
			return nil, fmt.Errorf("partition %d: %w", g+1, err)
		}
		sub.PruneLevels()
		out[g] = sub
	}
	return out, nil
}

// #endregion partition
