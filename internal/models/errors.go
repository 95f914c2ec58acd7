package models

import (
	"errors"
	"fmt"
)

// Every message is prefixed with "weird: ". Callers match with errors.Is;
// shape problems additionally carry a *ShapeError for errors.As.
var (
	// ErrShape is wrapped by every *ShapeError.
	ErrShape = errors.New("weird: shape mismatch")

	// ErrEmptyData is returned by Fit when there are no samples.
	ErrEmptyData = errors.New("weird: no training samples")

	// ErrNotFitted is returned when predicting without a fitted model.
	ErrNotFitted = errors.New("weird: model is not fitted")

	// ErrNonFinite is returned when a feature value is NaN or ±Inf.
	ErrNonFinite = errors.New("weird: NaN or Inf in input")

	// ErrInvalidOption is returned for a bad epsilon or an unknown weight scheme.
	ErrInvalidOption = errors.New("weird: invalid option")
)

// ShapeError describes a length or dimensionality mismatch.
// Row is -1 when the mismatch is between X and y rather than inside a row.
type ShapeError struct {
	Op   string
	Row  int
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("weird: %s: got %d labels for %d samples", e.Op, e.Got, e.Want)
	}
	return fmt.Sprintf("weird: %s: row %d has %d features, want %d", e.Op, e.Row, e.Got, e.Want)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

func nonFinite(op string, row, col int) error {
	return fmt.Errorf("%w: %s: row %d column %d", ErrNonFinite, op, row, col)
}
