package report

import (
	"fmt"
	"io"

	"golang.org/x/exp/rand"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/danielpatrickdp/progressive-sampling/internal/aggregate"
	"github.com/danielpatrickdp/progressive-sampling/internal/driver"
)

// #region plot

// Plot renders the accuracy-vs-size scatter to a PNG: one jittered
// point per (size, repeat) over ordinal size positions, y fixed to
// [0,100], with the per-size mean overlaid as a trend line. The jitter
// source is fixed so re-rendering the same table gives the same image.
func Plot(rows []driver.ResultRow, path string) error {
	if len(rows) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	sums := aggregate.Summarize(rows)
	pos := make(map[int]float64, len(sums))
	labels := make([]string, len(sums))
	for i, s := range sums {
		pos[s.SampleSize] = float64(i)
		labels[i] = fmt.Sprintf("%d", s.SampleSize)
	}

	jitter := rand.New(rand.NewSource(1))
	pts := make(plotter.XYs, len(rows))
	for i, r := range rows {
		pts[i].X = pos[r.SampleSize] + (jitter.Float64()-0.5)*0.3
		pts[i].Y = r.MeanAccuracy
	}

	trend := make(plotter.XYs, len(sums))
	for i, s := range sums {
		trend[i].X = float64(i)
		trend[i].Y = s.Mean
	}

	p := plot.New()
	p.Title.Text = "Mean CV accuracy vs training sample size"
	p.X.Label.Text = "sample size"
	p.Y.Label.Text = "accuracy (%)"
	p.Y.Min, p.Y.Max = 0, 100
	p.NominalX(labels...)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("build scatter: %w", err)
	}
	line, err := plotter.NewLine(trend)
	if err != nil {
		return fmt.Errorf("build trend line: %w", err)
	}
	p.Add(scatter, line)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}

// #endregion plot

// #region summary

// WriteSummary prints the per-size reduction and the stability
// recommendation as a plain text table.
func WriteSummary(w io.Writer, sums []aggregate.Summary, tol float64) error {
	if _, err := fmt.Fprintf(w, "%10s %8s %8s %8s %8s %8s\n",
		"size", "repeats", "min", "mean", "max", "sd"); err != nil {
		return err
	}
	for _, s := range sums {
		if _, err := fmt.Fprintf(w, "%10d %8d %8.2f %8.2f %8.2f %8.2f\n",
			s.SampleSize, s.Repeats, s.Min, s.Mean, s.Max, s.StdDev); err != nil {
			return err
		}
	}
	if size, ok := aggregate.Recommend(sums, tol); ok {
		_, err := fmt.Fprintf(w, "\nstable from n=%d (sd < %.2f points from there on)\n", size, tol)
		return err
	}
	_, err := fmt.Fprintf(w, "\nno size reaches sd < %.2f points; extend the size sequence\n", tol)
	return err
}

// #endregion summary
