package data

// Dataset is a labeled feature matrix: X[i] is the sample whose label is Y[i].
type Dataset struct {
	X [][]float64
	Y []int
}

func (d Dataset) Len() int { return len(d.X) }

// Dimensions is the width of the first row, or 0 for an empty dataset.
func (d Dataset) Dimensions() int {
	if len(d.X) == 0 {
		return 0
	}
	return len(d.X[0])
}

// Subset returns the rows at idx. Rows are shared, not copied.
func (d Dataset) Subset(idx []int) Dataset {
	out := Dataset{X: make([][]float64, len(idx)), Y: make([]int, len(idx))}
	for k, i := range idx {
		out.X[k] = d.X[i]
		out.Y[k] = d.Y[i]
	}
	return out
}

// Head returns the first n rows (or all of them when n is larger). A negative
// n yields an empty dataset.
func (d Dataset) Head(n int) Dataset {
	if n < 0 {
		n = 0
	}
	if n > len(d.X) {
		n = len(d.X)
	}
	return Dataset{X: d.X[:n], Y: d.Y[:n]}
}

// ClassCounts counts samples per label.
func (d Dataset) ClassCounts() map[int]int {
	out := map[int]int{}
	for _, y := range d.Y {
		out[y]++
	}
	return out
}
