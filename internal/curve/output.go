package curve

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var csvHeader = []string{"size", "train_acc", "test_acc", "train_f1", "test_f1"}

// WriteCSV writes one row per point, creating parent directories.
func WriteCSV(path string, points []Point) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range points {
		rec := []string{
			strconv.Itoa(p.Size),
			fmt.Sprintf("%.6f", p.TrainAcc),
			fmt.Sprintf("%.6f", p.TestAcc),
			fmt.Sprintf("%.6f", p.TrainF1),
			fmt.Sprintf("%.6f", p.TestF1),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// PlotPNG renders accuracy and F1 against training size.
func PlotPNG(path string, points []Point) error {
	p := plot.New()
	p.Title.Text = "WeiRD learning curve"
	p.X.Label.Text = "Training samples"
	p.Y.Label.Text = "Score"
	p.Y.Min = 0
	p.Y.Max = 1

	xy := func(val func(Point) float64) plotter.XYs {
		pts := make(plotter.XYs, len(points))
		for i, pt := range points {
			pts[i].X = float64(pt.Size)
			pts[i].Y = val(pt)
		}
		return pts
	}
	if err := plotutil.AddLinePoints(p,
		"Train (acc)", xy(func(pt Point) float64 { return pt.TrainAcc }),
		"Test (acc)", xy(func(pt Point) float64 { return pt.TestAcc }),
		"Train (F1)", xy(func(pt Point) float64 { return pt.TrainF1 }),
		"Test (F1)", xy(func(pt Point) float64 { return pt.TestF1 }),
	); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
