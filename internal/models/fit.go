package models

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Fit builds a Model from X (N×D) and the parallel labels y. X and y are not
// modified; the model keeps its own copies of everything it derives.
//
// A training set with a single distinct label is valid: the returned model is
// Degenerate and predicts that label for every row.
func Fit(X [][]float64, y []int, opts *FitOptions) (*Model, error) {
	o := DefaultFitOptions()
	if opts != nil {
		o = *opts
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	dims, err := checkTraining(X, y)
	if err != nil {
		return nil, err
	}

	classes, groups := partition(y)
	prototypes := make([][]float64, len(classes))
	support := make([]int, len(classes))
	for k, c := range classes {
		idx := groups[c]
		// running mean, so finite rows always give a finite prototype
		p := make([]float64, dims)
		inv := 1 / float64(len(idx))
		for _, i := range idx {
			floats.AddScaled(p, inv, X[i])
		}
		prototypes[k] = p
		support[k] = len(idx)
	}

	within := withinClassVariance(X, classes, groups, prototypes, dims)
	var weights []float64
	switch o.Scheme {
	case FisherRatio:
		between := betweenClassVariance(prototypes, support, len(X), dims)
		weights = fisherWeights(between, within, o.Epsilon)
	default:
		weights = inverseVarianceWeights(within, o.Epsilon)
	}

	return &Model{
		classes:    classes,
		prototypes: prototypes,
		support:    support,
		weights:    weights,
		dims:       dims,
		scheme:     o.Scheme,
		epsilon:    o.Epsilon,
	}, nil
}

func checkTraining(X [][]float64, y []int) (int, error) {
	if len(X) != len(y) {
		return 0, &ShapeError{Op: "fit", Row: -1, Got: len(y), Want: len(X)}
	}
	if len(X) == 0 {
		return 0, ErrEmptyData
	}
	dims := len(X[0])
	if dims == 0 {
		return 0, &ShapeError{Op: "fit", Row: 0, Got: 0, Want: 1}
	}
	for i, row := range X {
		if len(row) != dims {
			return 0, &ShapeError{Op: "fit", Row: i, Got: len(row), Want: dims}
		}
		if j := firstNonFinite(row); j >= 0 {
			return 0, nonFinite("fit", i, j)
		}
	}
	return dims, nil
}

// partition groups sample indices by label. Indices keep their encounter
// order inside a group; classes come back sorted ascending.
func partition(y []int) ([]int, map[int][]int) {
	groups := make(map[int][]int)
	for i, label := range y {
		groups[label] = append(groups[label], i)
	}
	classes := make([]int, 0, len(groups))
	for c := range groups {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes, groups
}

func firstNonFinite(row []float64) int {
	for j, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return j
		}
	}
	return -1
}
