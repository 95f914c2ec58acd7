package models

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// withinClassVariance is the pooled population variance of each feature around
// its class prototype: (1/N) Σ_c Σ_{x∈c} (x_i - p_c,i)².
func withinClassVariance(X [][]float64, classes []int, groups map[int][]int, prototypes [][]float64, dims int) []float64 {
	v := make([]float64, dims)
	for k, c := range classes {
		p := prototypes[k]
		for _, i := range groups[c] {
			for j, x := range X[i] {
				d := x - p[j]
				v[j] += d * d
			}
		}
	}
	floats.Scale(1/float64(len(X)), v)
	return v
}

// betweenClassVariance is (1/N) Σ_c n_c (p_c,i - μ_i)² with μ the grand mean.
func betweenClassVariance(prototypes [][]float64, support []int, n, dims int) []float64 {
	mu := make([]float64, dims)
	for k, p := range prototypes {
		floats.AddScaled(mu, float64(support[k])/float64(n), p)
	}

	v := make([]float64, dims)
	for k, p := range prototypes {
		w := float64(support[k]) / float64(n)
		for j := range v {
			d := p[j] - mu[j]
			v[j] += w * d * d
		}
	}
	return v
}

func inverseVarianceWeights(within []float64, eps float64) []float64 {
	w := make([]float64, len(within))
	for i, v := range within {
		w[i] = 1 / (v + eps)
	}
	return normalizeWeights(w)
}

// fisherWeights falls back to inverse variance when no feature separates the
// classes at all, which is always the case for a single-class model.
func fisherWeights(between, within []float64, eps float64) []float64 {
	if floats.Max(between) <= 0 {
		return inverseVarianceWeights(within, eps)
	}
	w := make([]float64, len(within))
	for i := range w {
		w[i] = between[i] / (within[i] + eps)
		if math.IsNaN(w[i]) {
			// Inf/Inf: the feature is unusable
			w[i] = 0
		}
	}
	return normalizeWeights(w)
}

// normalizeWeights rescales w in place to sum to len(w). Dividing by the max
// first keeps the sum finite even for a tiny epsilon.
func normalizeWeights(w []float64) []float64 {
	for i, v := range w {
		if math.IsInf(v, 1) {
			w[i] = math.MaxFloat64
		}
	}
	m := floats.Max(w)
	if m <= 0 || math.IsNaN(m) {
		for i := range w {
			w[i] = 1
		}
		return w
	}
	for i := range w {
		w[i] /= m
	}
	n, s := float64(len(w)), floats.Sum(w)
	for i := range w {
		w[i] = w[i] * n / s
	}
	return w
}
