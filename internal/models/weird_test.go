package models_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weird/internal/data"
	"weird/internal/metrics"
	"weird/internal/models"
)

func TestFit_PerfectSeparability(t *testing.T) {
	t.Parallel()

	X := [][]float64{{0, 0}, {10, 10}, {0, 0}, {10, 10}}
	y := []int{0, 1, 0, 1}

	m, err := models.Fit(X, y, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, m.Weights())

	got, err := m.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, y, got)
}

func TestFit_Prototypes(t *testing.T) {
	t.Parallel()

	X := [][]float64{{1, 2}, {10, 10}, {3, 4}}
	y := []int{0, 1, 0}

	m, err := models.Fit(X, y, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, m.Classes())
	assert.Equal(t, 2, m.Dimensions())
	p0, ok := m.Prototype(0)
	require.True(t, ok)
	assert.Equal(t, []float64{2, 3}, p0)
	assert.Equal(t, map[int][]float64{0: {2, 3}, 1: {10, 10}}, m.Prototypes())
	assert.Equal(t, 2, m.Support(0))
	assert.Equal(t, 1, m.Support(1))
	assert.Equal(t, 0, m.Support(42))
	_, ok = m.Prototype(42)
	assert.False(t, ok)
}

func TestFit_DegenerateSingleClass(t *testing.T) {
	t.Parallel()

	X := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	y := []int{0, 0, 0}

	m, err := models.Fit(X, y, nil)
	require.NoError(t, err)
	assert.True(t, m.Degenerate())

	got, err := m.Predict([][]float64{{100, -100}, {0, 0}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, got)
}

func TestFit_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		X       [][]float64
		y       []int
		opts    *models.FitOptions
		wantErr error
	}{
		{"empty", nil, nil, nil, models.ErrEmptyData},
		{"label count", [][]float64{{1}, {2}}, []int{0}, nil, models.ErrShape},
		{"ragged", [][]float64{{1, 2}, {3}}, []int{0, 1}, nil, models.ErrShape},
		{"zero width", [][]float64{{}, {}}, []int{0, 1}, nil, models.ErrShape},
		{"nan", [][]float64{{1, math.NaN()}}, []int{0}, nil, models.ErrNonFinite},
		{"inf", [][]float64{{math.Inf(-1)}}, []int{0}, nil, models.ErrNonFinite},
		{"zero epsilon", [][]float64{{1}}, []int{0}, &models.FitOptions{}, models.ErrInvalidOption},
		{"negative epsilon", [][]float64{{1}}, []int{0}, &models.FitOptions{Epsilon: -1}, models.ErrInvalidOption},
		{"unknown scheme", [][]float64{{1}}, []int{0}, &models.FitOptions{Epsilon: 1, Scheme: 9}, models.ErrInvalidOption},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m, err := models.Fit(tc.X, tc.y, tc.opts)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.Truef(t, errors.Is(err, tc.wantErr), "expected errors.Is(%v, %v)", err, tc.wantErr)
		})
	}
}

func TestFit_ShapeErrorDetails(t *testing.T) {
	t.Parallel()

	_, err := models.Fit([][]float64{{1, 2}, {3, 4}, {5}}, []int{0, 1, 1}, nil)
	var se *models.ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ShapeError{Op: "fit", Row: 2, Got: 1, Want: 2}, *se)

	_, err = models.Fit([][]float64{{1}}, []int{0, 1}, nil)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, -1, se.Row)
	assert.Contains(t, err.Error(), "got 2 labels for 1 samples")
}

func TestFit_DoesNotRetainInputs(t *testing.T) {
	t.Parallel()

	X := [][]float64{{0, 0}, {10, 10}}
	y := []int{0, 1}
	m, err := models.Fit(X, y, nil)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{0, 0}, {10, 10}}, X)
	assert.Equal(t, []int{0, 1}, y)

	X[0][0], X[1][1] = 99, -99
	p, _ := m.Prototype(0)
	assert.Equal(t, []float64{0, 0}, p)

	w := m.Weights()
	w[0] = -5
	assert.Equal(t, []float64{1, 1}, m.Weights())
}

func TestWeights_InverseWithinClassVariance(t *testing.T) {
	t.Parallel()

	// feature 0 varies by ±1 inside each class, feature 1 is constant per class
	X := [][]float64{{0, 0}, {2, 0}, {10, 5}, {12, 5}}
	y := []int{0, 0, 1, 1}

	m, err := models.Fit(X, y, nil)
	require.NoError(t, err)

	w := m.Weights()
	assert.InDelta(t, 2.0, w[0]+w[1], 1e-12)
	assert.InDelta(t, 2.0, w[1], 1e-6)
	assert.Less(t, w[0], 1e-6)
	assert.Greater(t, w[0], 0.0)
}

func TestWeights_NonNegativeAndFinite(t *testing.T) {
	t.Parallel()

	f := data.Fixture{SamplesPerClass: 30, Features: 8, Classes: 3, Seed: 11}
	ds := data.Synthesize(f, data.NewRand(f.Seed))
	for _, row := range ds.X {
		row[3] = 7 // constant column
	}

	for _, scheme := range []models.WeightScheme{models.WithinClassVariance, models.FisherRatio} {
		for _, eps := range []float64{1e-300, 1e-9, 1} {
			m, err := models.Fit(ds.X, ds.Y, &models.FitOptions{Epsilon: eps, Scheme: scheme})
			require.NoError(t, err)
			sum := 0.0
			for _, w := range m.Weights() {
				assert.False(t, math.IsNaN(w) || math.IsInf(w, 0), "scheme %v eps %g: %v", scheme, eps, w)
				assert.GreaterOrEqual(t, w, 0.0)
				sum += w
			}
			assert.InDelta(t, float64(f.Features), sum, 1e-9)
		}
	}
}

func TestWeights_FisherRatio(t *testing.T) {
	t.Parallel()

	// feature 0 separates the classes, feature 1 is pure within-class noise
	X := [][]float64{{0, 0}, {0, 2}, {4, 0}, {4, 2}}
	y := []int{0, 0, 1, 1}

	m, err := models.Fit(X, y, &models.FitOptions{Epsilon: models.DefaultEpsilon, Scheme: models.FisherRatio})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0}, m.Weights())
	assert.Equal(t, models.FisherRatio, m.Scheme())
	assert.Equal(t, models.DefaultEpsilon, m.Epsilon())

	got, err := m.Predict([][]float64{{0.5, 100}, {3.9, -100}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)
}

func TestWeights_FisherFallsBackForSingleClass(t *testing.T) {
	t.Parallel()

	X := [][]float64{{0, 0}, {2, 0}}
	y := []int{4, 4}

	fisher, err := models.Fit(X, y, &models.FitOptions{Epsilon: 1e-9, Scheme: models.FisherRatio})
	require.NoError(t, err)
	within, err := models.Fit(X, y, nil)
	require.NoError(t, err)
	assert.Equal(t, within.Weights(), fisher.Weights())
}

func TestPredict_TieBreaksToLowestLabel(t *testing.T) {
	t.Parallel()

	m, err := models.Fit([][]float64{{0}, {2}}, []int{5, 3}, nil)
	require.NoError(t, err)

	got, err := m.Predict([][]float64{{1}, {-1}, {3}})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5, 3}, got)
}

func TestPredict_ShapeMismatch(t *testing.T) {
	t.Parallel()

	m, err := models.Fit([][]float64{{0, 0}, {1, 1}}, []int{0, 1}, nil)
	require.NoError(t, err)

	for _, X := range [][][]float64{
		{{1}},
		{{1, 2, 3}},
		{{1, 2}, {1, 2}, {1}},
	} {
		_, err := m.Predict(X)
		assert.ErrorIs(t, err, models.ErrShape)
		_, err = m.PredictProba(X)
		assert.ErrorIs(t, err, models.ErrShape)
	}

	_, err = m.Predict([][]float64{{math.NaN(), 0}})
	assert.ErrorIs(t, err, models.ErrNonFinite)
}

func TestPredict_EmptyInput(t *testing.T) {
	t.Parallel()

	m, err := models.Fit([][]float64{{0}, {1}}, []int{0, 1}, nil)
	require.NoError(t, err)

	got, err := m.Predict(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPredict_DeterministicAndOrdered(t *testing.T) {
	t.Parallel()

	f := data.DefaultFixture()
	ds := data.Synthesize(f, data.NewRand(f.Seed))
	m, err := models.Fit(ds.X, ds.Y, nil)
	require.NoError(t, err)

	first, err := m.Predict(ds.X)
	require.NoError(t, err)
	require.Len(t, first, ds.Len())
	for i := 0; i < 3; i++ {
		again, err := m.Predict(ds.X)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	reversed := make([][]float64, ds.Len())
	for i, row := range ds.X {
		reversed[len(reversed)-1-i] = row
	}
	rev, err := m.Predict(reversed)
	require.NoError(t, err)
	for i := range first {
		assert.Equal(t, first[i], rev[len(rev)-1-i])
	}
}

func TestPredictProba(t *testing.T) {
	t.Parallel()

	m, err := models.Fit([][]float64{{0}, {10}, {20}}, []int{2, 0, 1}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, m.Classes())

	proba, err := m.PredictProba([][]float64{{1}, {19}, {10}})
	require.NoError(t, err)
	labels, err := m.Predict([][]float64{{1}, {19}, {10}})
	require.NoError(t, err)

	for i, row := range proba {
		require.Len(t, row, 3)
		sum, best := 0.0, 0
		for k, p := range row {
			sum += p
			if p > row[best] {
				best = k
			}
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
		assert.Equal(t, labels[i], m.Classes()[best])
	}

	d, err := m.Distances([][]float64{{10}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 100, 100}}, d)
}

func TestPredictProba_OverflowingDistances(t *testing.T) {
	t.Parallel()

	m, err := models.Fit([][]float64{{0, 0}, {10, 10}}, []int{0, 1}, nil)
	require.NoError(t, err)

	d, err := m.Distances([][]float64{{1e200, 1e200}})
	require.NoError(t, err)
	require.True(t, math.IsInf(d[0][0], 1))
	require.True(t, math.IsInf(d[0][1], 1))

	proba, err := m.PredictProba([][]float64{{1e200, 1e200}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.5, 0.5}}, proba)

	one, err := models.Fit([][]float64{{0}, {1e300}}, []int{0, 1}, nil)
	require.NoError(t, err)
	proba, err = one.PredictProba([][]float64{{1e300}, {0}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1}, {1, 0}}, proba)
}

func TestFit_LargeFiniteValues(t *testing.T) {
	t.Parallel()

	X := [][]float64{{1e308, 1}, {1e308, 2}, {-1e308, 3}, {-1e308, 4}}
	m, err := models.Fit(X, []int{0, 0, 1, 1}, nil)
	require.NoError(t, err)

	p0, _ := m.Prototype(0)
	assert.Equal(t, []float64{1e308, 1.5}, p0)
	for _, w := range m.Weights() {
		assert.False(t, math.IsInf(w, 0) || math.IsNaN(w))
	}
	got, err := m.Predict([][]float64{{1e308, 1.5}, {-1e308, 3.5}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)

	// the first feature's variance overflows, leaving it a zero weight
	X = [][]float64{{1e200, 0}, {-1e200, 0}, {1e200, 10}, {-1e200, 10}}
	m, err = models.Fit(X, []int{0, 0, 1, 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, m.Weights())
	got, err = m.Predict([][]float64{{1e200, 1}, {-1e200, 9}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got)
}

func TestModel_NilIsNotFitted(t *testing.T) {
	t.Parallel()

	var m *models.Model
	_, err := m.Predict([][]float64{{1}})
	assert.ErrorIs(t, err, models.ErrNotFitted)
	_, err = m.PredictProba([][]float64{{1}})
	assert.ErrorIs(t, err, models.ErrNotFitted)
	assert.Nil(t, m.Classes())
	assert.False(t, m.Degenerate())
}

func TestWeiRD_Unfitted(t *testing.T) {
	t.Parallel()

	w := models.NewWeiRD()
	_, err := w.Predict([][]float64{{1}})
	assert.ErrorIs(t, err, models.ErrNotFitted)
	_, err = w.PredictProba([][]float64{{1}})
	assert.ErrorIs(t, err, models.ErrNotFitted)
	_, err = w.State()
	assert.ErrorIs(t, err, models.ErrNotFitted)
	assert.Nil(t, w.Classes())
	assert.Equal(t, "WeiRD", w.Name())
}

func TestWeiRD_RefitReplacesAndFailedFitKeepsState(t *testing.T) {
	t.Parallel()

	w := &models.WeiRD{} // zero Epsilon falls back to the default
	require.NoError(t, w.Fit([][]float64{{0}, {10}}, []int{0, 1}))
	first, err := w.State()
	require.NoError(t, err)

	require.NoError(t, w.Fit([][]float64{{0}, {10}, {20}}, []int{7, 8, 9}))
	second, err := w.State()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, []int{0, 1}, first.Classes())
	assert.Equal(t, []int{7, 8, 9}, w.Classes())

	err = w.Fit([][]float64{{1, 2}}, []int{0, 1})
	require.ErrorIs(t, err, models.ErrShape)
	third, err := w.State()
	require.NoError(t, err)
	assert.Same(t, second, third)
}

func TestWeiRD_ConcurrentPredictDuringRefit(t *testing.T) {
	t.Parallel()

	a := data.Synthesize(data.Fixture{SamplesPerClass: 20, Features: 4, Classes: 2, Seed: 1}, data.NewRand(1))
	b := data.Synthesize(data.Fixture{SamplesPerClass: 20, Features: 4, Classes: 2, Seed: 2}, data.NewRand(2))

	w := models.NewWeiRD()
	require.NoError(t, w.Fit(a.X, a.Y))

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				got, err := w.Predict(a.X)
				if err != nil {
					errs <- err
					return
				}
				if len(got) != a.Len() {
					errs <- errors.New("short prediction")
					return
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		ds := a
		if i%2 == 1 {
			ds = b
		}
		require.NoError(t, w.Fit(ds.X, ds.Y))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestWeiRD_FixtureScenario(t *testing.T) {
	t.Parallel()

	f := data.DefaultFixture()
	rng := data.NewRand(f.Seed)
	ds := data.Synthesize(f, rng)
	XPredict := data.Perturb(ds.X, rng)

	w := models.NewWeiRD()
	require.NoError(t, w.Fit(ds.X, ds.Y))

	onTrain, err := w.Predict(ds.X)
	require.NoError(t, err)
	assert.InDelta(t, 0.99, metrics.Accuracy(ds.Y, onTrain), 0.011)

	// Seed 2 with math/rand scores 177/200 on the perturbed copy. The NumPy
	// stream behind the 93.5% reference figure cannot be reproduced in Go, so
	// this pins the Go fixture instead, within two samples.
	onPerturbed, err := w.Predict(XPredict)
	require.NoError(t, err)
	assert.InDelta(t, 0.885, metrics.Accuracy(ds.Y, onPerturbed), 0.011)
}

func TestParseWeightScheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    models.WeightScheme
		wantErr bool
	}{
		{"", models.WithinClassVariance, false},
		{"within", models.WithinClassVariance, false},
		{" Fisher ", models.FisherRatio, false},
		{"fisher_ratio", models.FisherRatio, false},
		{"between", 0, true},
	}
	for _, tc := range tests {
		got, err := models.ParseWeightScheme(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, models.ErrInvalidOption)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, got, mustParse(t, got.String()))
	}
}

func mustParse(t *testing.T, s string) models.WeightScheme {
	t.Helper()
	ws, err := models.ParseWeightScheme(s)
	require.NoError(t, err)
	return ws
}
