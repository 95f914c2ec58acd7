package models

import "sync/atomic"

// WeiRD is the Classifier handle around Model. Fit publishes a brand new
// Model only when training succeeds, so Predict running on other goroutines
// always sees a complete model. Do not copy a WeiRD after first use.
type WeiRD struct {
	Epsilon float64
	Scheme  WeightScheme

	state atomic.Pointer[Model]
}

// NewWeiRD returns an unfitted handle with DefaultEpsilon and WithinClassVariance.
func NewWeiRD() *WeiRD {
	return &WeiRD{Epsilon: DefaultEpsilon, Scheme: WithinClassVariance}
}

func (w *WeiRD) Name() string { return "WeiRD" }

// Fit trains a new Model with the handle's Epsilon (0 means DefaultEpsilon)
// and Scheme. On error the previously fitted model stays in place.
func (w *WeiRD) Fit(X [][]float64, y []int) error {
	eps := w.Epsilon
	if eps == 0 {
		eps = DefaultEpsilon
	}
	m, err := Fit(X, y, &FitOptions{Epsilon: eps, Scheme: w.Scheme})
	if err != nil {
		return err
	}
	w.state.Store(m)
	return nil
}

// State returns the currently published model.
func (w *WeiRD) State() (*Model, error) {
	m := w.state.Load()
	if m == nil {
		return nil, ErrNotFitted
	}
	return m, nil
}

// Predict classifies X with the current model, or fails with ErrNotFitted.
func (w *WeiRD) Predict(X [][]float64) ([]int, error) {
	m, err := w.State()
	if err != nil {
		return nil, err
	}
	return m.Predict(X)
}

// PredictProba scores X with the current model; columns follow Classes.
func (w *WeiRD) PredictProba(X [][]float64) ([][]float64, error) {
	m, err := w.State()
	if err != nil {
		return nil, err
	}
	return m.PredictProba(X)
}

// Classes is nil until the first successful Fit.
func (w *WeiRD) Classes() []int {
	return w.state.Load().Classes()
}
