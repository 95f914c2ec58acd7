// Package metrics scores label predictions against ground truth.
package metrics

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrLengthMismatch is returned when truth and predictions differ in length.
var ErrLengthMismatch = errors.New("metrics: length mismatch")

// Accuracy is the fraction of positions where p equals y. It returns 0 for
// empty input and NaN when the lengths differ.
func Accuracy(y, p []int) float64 {
	if len(y) != len(p) {
		return math.NaN()
	}
	if len(y) == 0 {
		return 0
	}
	c := 0
	for i := range y {
		if y[i] == p[i] {
			c++
		}
	}
	return float64(c) / float64(len(y))
}

// Counts is a one-vs-rest confusion matrix for a single positive label.
type Counts struct {
	TP, FP, TN, FN int
}

// Confusion counts outcomes with positive as the positive label and every
// other label as negative.
func Confusion(y, p []int, positive int) (Counts, error) {
	var c Counts
	if len(y) != len(p) {
		return c, fmt.Errorf("%w: %d labels, %d predictions", ErrLengthMismatch, len(y), len(p))
	}
	for i := range y {
		switch {
		case p[i] == positive && y[i] == positive:
			c.TP++
		case p[i] == positive:
			c.FP++
		case y[i] == positive:
			c.FN++
		default:
			c.TN++
		}
	}
	return c, nil
}

// PRF1 returns precision, recall and F1 of the positive label.
func PRF1(y, p []int, positive int) (precision, recall, f1 float64, err error) {
	c, err := Confusion(y, p, positive)
	if err != nil {
		return 0, 0, 0, err
	}
	if c.TP+c.FP > 0 {
		precision = float64(c.TP) / float64(c.TP+c.FP)
	}
	if c.TP+c.FN > 0 {
		recall = float64(c.TP) / float64(c.TP+c.FN)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1, nil
}

// ROCAUC is the area under the ROC curve of scores for the positive label,
// computed with the trapezoid rule over distinct score thresholds.
// It is 0 when either class is absent.
func ROCAUC(y []int, scores []float64, positive int) (float64, error) {
	if len(y) != len(scores) {
		return 0, fmt.Errorf("%w: %d labels, %d scores", ErrLengthMismatch, len(y), len(scores))
	}
	type pair struct {
		s   float64
		pos bool
	}
	n := len(y)
	pairs := make([]pair, n)
	var pos, neg int
	for i := 0; i < n; i++ {
		pairs[i] = pair{scores[i], y[i] == positive}
		if pairs[i].pos {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, nil
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].s > pairs[j].s })

	tp, fp := 0, 0
	prevS := math.Inf(1)
	var auc, prevTPR, prevFPR float64
	for _, p := range pairs {
		if p.s != prevS {
			tpr := float64(tp) / float64(pos)
			fpr := float64(fp) / float64(neg)
			auc += (fpr - prevFPR) * (tpr + prevTPR) / 2
			prevTPR, prevFPR = tpr, fpr
			prevS = p.s
		}
		if p.pos {
			tp++
		} else {
			fp++
		}
	}
	auc += (1 - prevFPR) * (1 + prevTPR) / 2
	return auc, nil
}
