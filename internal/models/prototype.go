package models

// Model is the immutable result of Fit: one prototype per class and a shared
// weight vector. Accessors return copies, so a *Model can be shared freely
// between goroutines.
type Model struct {
	classes    []int
	prototypes [][]float64
	support    []int
	weights    []float64
	dims       int
	scheme     WeightScheme
	epsilon    float64
}

// Classes returns the distinct training labels in ascending order.
func (m *Model) Classes() []int {
	if m == nil {
		return nil
	}
	return append([]int(nil), m.classes...)
}

// Dimensions is the feature count every predicted row must have.
func (m *Model) Dimensions() int {
	if m == nil {
		return 0
	}
	return m.dims
}

// Weights returns the per-feature weights. They are non-negative, finite and sum to Dimensions.
func (m *Model) Weights() []float64 {
	if m == nil {
		return nil
	}
	return append([]float64(nil), m.weights...)
}

// Prototype returns the mean vector of the given class.
func (m *Model) Prototype(label int) ([]float64, bool) {
	k, ok := m.index(label)
	if !ok {
		return nil, false
	}
	return append([]float64(nil), m.prototypes[k]...), true
}

// Prototypes returns every class prototype keyed by label.
func (m *Model) Prototypes() map[int][]float64 {
	if m == nil {
		return nil
	}
	out := make(map[int][]float64, len(m.classes))
	for k, c := range m.classes {
		out[c] = append([]float64(nil), m.prototypes[k]...)
	}
	return out
}

// Support is the number of training samples seen for label.
func (m *Model) Support(label int) int {
	k, ok := m.index(label)
	if !ok {
		return 0
	}
	return m.support[k]
}

// Degenerate reports a single-class model, whose predictions are constant.
func (m *Model) Degenerate() bool {
	return m != nil && len(m.classes) == 1
}

// Scheme is the weighting scheme the model was fitted with.
func (m *Model) Scheme() WeightScheme {
	if m == nil {
		return WithinClassVariance
	}
	return m.scheme
}

// Epsilon is the variance floor the model was fitted with.
func (m *Model) Epsilon() float64 {
	if m == nil {
		return 0
	}
	return m.epsilon
}

func (m *Model) index(label int) (int, bool) {
	if m == nil {
		return 0, false
	}
	for k, c := range m.classes {
		if c == label {
			return k, true
		}
	}
	return 0, false
}
