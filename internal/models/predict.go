package models

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Predict assigns each row the label of the nearest prototype under the
// weighted squared distance Σ_i w_i (x_i - p_i)². Exact ties go to the lowest
// label. The result has one label per row, in input order.
func (m *Model) Predict(X [][]float64) ([]int, error) {
	if m == nil {
		return nil, ErrNotFitted
	}
	if err := m.checkRows("predict", X); err != nil {
		return nil, err
	}
	out := make([]int, len(X))
	for i, x := range X {
		out[i] = m.classes[m.nearest(x)]
	}
	return out, nil
}

// Distances returns, for every row, the weighted squared distance to each
// class prototype in Classes order.
func (m *Model) Distances(X [][]float64) ([][]float64, error) {
	if m == nil {
		return nil, ErrNotFitted
	}
	if err := m.checkRows("distances", X); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, x := range X {
		row := make([]float64, len(m.classes))
		for k := range m.classes {
			row[k] = m.distance(x, k)
		}
		out[i] = row
	}
	return out, nil
}

// PredictProba turns distances into per-class scores with a softmax over the
// negative distances. Each row sums to 1 and follows Classes order. Distances
// are taken relative to the row minimum, so a row whose distances all overflow
// to +Inf comes back uniform, and a single finite minimum comes back one-hot.
func (m *Model) PredictProba(X [][]float64) ([][]float64, error) {
	d, err := m.Distances(X)
	if err != nil {
		return nil, err
	}
	for _, row := range d {
		lo := floats.Min(row)
		if math.IsInf(lo, 1) {
			for k := range row {
				row[k] = 1 / float64(len(row))
			}
			continue
		}
		for k, v := range row {
			row[k] = lo - v
		}
		lse := floats.LogSumExp(row)
		for k, v := range row {
			row[k] = math.Exp(v - lse)
		}
	}
	return d, nil
}

func (m *Model) nearest(x []float64) int {
	best, bestD := 0, m.distance(x, 0)
	for k := 1; k < len(m.classes); k++ {
		if d := m.distance(x, k); d < bestD {
			best, bestD = k, d
		}
	}
	return best
}

// distance skips zero-weight features so an overflowing difference there
// cannot turn the sum into NaN.
func (m *Model) distance(x []float64, k int) float64 {
	p := m.prototypes[k]
	s := 0.0
	for i, w := range m.weights {
		if w == 0 {
			continue
		}
		d := x[i] - p[i]
		s += w * d * d
	}
	return s
}

func (m *Model) checkRows(op string, X [][]float64) error {
	for i, row := range X {
		if len(row) != m.dims {
			return &ShapeError{Op: op, Row: i, Got: len(row), Want: m.dims}
		}
		if j := firstNonFinite(row); j >= 0 {
			return nonFinite(op, i, j)
		}
	}
	return nil
}
