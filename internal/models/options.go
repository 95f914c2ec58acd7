package models

import (
	"fmt"
	"math"
	"strings"
)

// DefaultEpsilon keeps weights finite when a feature has zero within-class variance.
const DefaultEpsilon = 1e-9

// WeightScheme selects how per-feature weights are derived from training data.
type WeightScheme int

const (
	// WithinClassVariance weights feature i by 1 / (pooled within-class variance + ε).
	WithinClassVariance WeightScheme = iota
	// FisherRatio weights feature i by between-class variance / (within-class variance + ε).
	FisherRatio
)

func (s WeightScheme) String() string {
	switch s {
	case WithinClassVariance:
		return "within"
	case FisherRatio:
		return "fisher"
	default:
		return fmt.Sprintf("WeightScheme(%d)", int(s))
	}
}

// ParseWeightScheme accepts "within" (or "") and "fisher", case-insensitively.
func ParseWeightScheme(s string) (WeightScheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "within", "within_class_variance":
		return WithinClassVariance, nil
	case "fisher", "fisher_ratio":
		return FisherRatio, nil
	}
	return 0, fmt.Errorf("%w: unknown weight scheme %q", ErrInvalidOption, s)
}

// FitOptions are the hyper-parameters of Fit. A nil *FitOptions means DefaultFitOptions.
type FitOptions struct {
	Epsilon float64
	Scheme  WeightScheme
}

// DefaultFitOptions returns ε = DefaultEpsilon and the within-class variance scheme.
func DefaultFitOptions() FitOptions {
	return FitOptions{Epsilon: DefaultEpsilon, Scheme: WithinClassVariance}
}

func (o FitOptions) validate() error {
	if o.Epsilon <= 0 || math.IsNaN(o.Epsilon) || math.IsInf(o.Epsilon, 0) {
		return fmt.Errorf("%w: epsilon must be positive and finite, got %v", ErrInvalidOption, o.Epsilon)
	}
	switch o.Scheme {
	case WithinClassVariance, FisherRatio:
		return nil
	}
	return fmt.Errorf("%w: unknown weight scheme %d", ErrInvalidOption, int(o.Scheme))
}
