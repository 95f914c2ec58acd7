// Package models implements WeiRD, a weighted-distance prototype classifier.
//
// Fit summarises each class by the mean of its samples (its prototype) and
// learns one shared, non-negative weight per feature. Predict assigns a row to
// the class whose prototype is nearest under
//
//	d(x, c) = Σ_i w_i (x_i - p_c,i)²
//
// By default w_i ∝ 1 / (σ²_i + ε), where σ²_i is the pooled within-class
// variance of feature i, so quiet features dominate the decision and noisy
// ones are damped. FisherRatio additionally rewards features whose prototypes
// are far apart. Weights are normalised to sum to the feature count.
//
// A *Model is immutable and safe for concurrent use. WeiRD wraps it behind the
// Classifier interface and swaps in a new Model on every successful Fit.
//
// Errors:
//
//   - *ShapeError (errors.Is ErrShape): X/y length mismatch or wrong row width.
//   - ErrEmptyData: Fit without samples.
//   - ErrNotFitted: Predict before a successful Fit.
//   - ErrNonFinite: NaN or ±Inf feature values.
//   - ErrInvalidOption: epsilon not positive, unknown WeightScheme.
package models
