package data

import "math/rand"

// Fixture describes the synthetic benchmark: every class gets its own uniform
// offset vector, and each sample is that offset plus uniform noise.
type Fixture struct {
	SamplesPerClass int
	Features        int
	Classes         int
	Seed            int64
}

// DefaultFixture is the reference scenario: 2 classes × 100 samples, 20 features, seed 2.
func DefaultFixture() Fixture {
	return Fixture{SamplesPerClass: 100, Features: 20, Classes: 2, Seed: 2}
}

// NewRand returns the deterministic source used by the fixture helpers.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Synthesize draws the fixture from rng. Class c occupies rows
// [c*SamplesPerClass, (c+1)*SamplesPerClass) and is labeled c.
// Draw order is offset then samples, class by class, so the same rng state
// always yields the same dataset.
func Synthesize(f Fixture, rng *rand.Rand) Dataset {
	n := f.SamplesPerClass * f.Classes
	ds := Dataset{X: make([][]float64, 0, n), Y: make([]int, 0, n)}
	for c := 0; c < f.Classes; c++ {
		offset := make([]float64, f.Features)
		for j := range offset {
			offset[j] = rng.Float64()
		}
		for i := 0; i < f.SamplesPerClass; i++ {
			row := make([]float64, f.Features)
			for j := range row {
				row[j] = offset[j] + rng.Float64()
			}
			ds.X = append(ds.X, row)
			ds.Y = append(ds.Y, c)
		}
	}
	return ds
}

// Perturb returns X plus U[0,1) noise on every entry. X is left untouched.
func Perturb(X [][]float64, rng *rand.Rand) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = v + rng.Float64()
		}
		out[i] = r
	}
	return out
}
