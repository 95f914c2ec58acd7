// Package curve computes learning curves: accuracy and F1 of a classifier
// trained on growing prefixes of a training set.
package curve

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"weird/internal/data"
	"weird/internal/metrics"
	"weird/internal/models"
)

// ErrEmptySplit is returned by Compute when the train or test set has no rows.
var ErrEmptySplit = errors.New("curve: empty train or test set")

// Point is one size on the curve with its train and test scores.
type Point struct {
	Size     int
	TrainAcc float64
	TestAcc  float64
	TrainF1  float64
	TestF1   float64
}

// Sizes returns strictly increasing training sizes ending at total. With
// useLog the sizes grow geometrically from min, otherwise linearly.
func Sizes(total, points, min int, useLog bool) []int {
	if total <= 0 {
		return nil
	}
	if points <= 1 {
		points = 2
	}
	if min < 10 {
		min = 10
	}
	if min > total {
		min = int(math.Max(10, float64(total)/2))
	}
	if min > total {
		min = total
	}

	raw := make([]int, 0, points)
	if useLog {
		ratio := math.Pow(float64(total)/float64(min), 1.0/float64(points-1))
		for i := 0; i < points; i++ {
			raw = append(raw, int(math.Round(float64(min)*math.Pow(ratio, float64(i)))))
		}
	} else {
		step := float64(total-min) / float64(points-1)
		for i := 0; i < points; i++ {
			raw = append(raw, int(math.Round(float64(min)+float64(i)*step)))
		}
	}

	out := make([]int, 0, len(raw))
	last := 0
	for _, s := range raw {
		if s <= last {
			s = last + 1
		}
		if s > total {
			s = total
		}
		if s != last {
			out = append(out, s)
			last = s
		}
	}
	if out[len(out)-1] != total {
		out = append(out, total)
	}
	return out
}

// Compute trains one fresh classifier per size on train.Head(size) and scores
// it on that prefix and on test. Fits run concurrently, bounded by
// GOMAXPROCS; the first error cancels the remaining ones.
func Compute(ctx context.Context, newClassifier func() models.Classifier, train, test data.Dataset, sizes []int, positive int) ([]Point, error) {
	if train.Len() == 0 || test.Len() == 0 {
		return nil, fmt.Errorf("%w: %d train, %d test", ErrEmptySplit, train.Len(), test.Len())
	}
	points := make([]Point, len(sizes))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k, s := range sizes {
		k, s := k, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sub := train.Head(s)
			clf := newClassifier()
			if err := clf.Fit(sub.X, sub.Y); err != nil {
				return fmt.Errorf("curve: fit at size %d: %w", s, err)
			}
			p := Point{Size: sub.Len()}
			var err error
			if p.TrainAcc, p.TrainF1, err = score(clf, sub, positive); err != nil {
				return fmt.Errorf("curve: train score at size %d: %w", s, err)
			}
			if p.TestAcc, p.TestF1, err = score(clf, test, positive); err != nil {
				return fmt.Errorf("curve: test score at size %d: %w", s, err)
			}
			points[k] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

func score(clf models.Classifier, ds data.Dataset, positive int) (acc, f1 float64, err error) {
	pred, err := clf.Predict(ds.X)
	if err != nil {
		return 0, 0, err
	}
	_, _, f1, err = metrics.PRF1(ds.Y, pred, positive)
	if err != nil {
		return 0, 0, err
	}
	return metrics.Accuracy(ds.Y, pred), f1, nil
}
