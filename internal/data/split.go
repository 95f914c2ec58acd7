package data

import (
	"math/rand"
	"sort"
)

// Shuffle returns a permuted view of ds.
func Shuffle(ds Dataset, rng *rand.Rand) Dataset {
	return ds.Subset(rng.Perm(ds.Len()))
}

// Split is a stratified train/test split: every label contributes
// floor((1-testRatio)*count) rows to train and the rest to test, and both
// halves are shuffled afterwards.
func Split(ds Dataset, testRatio float64, rng *rand.Rand) (train, test Dataset) {
	if testRatio < 0 {
		testRatio = 0
	}
	if testRatio > 1 {
		testRatio = 1
	}
	byLabel := map[int][]int{}
	for i, y := range ds.Y {
		byLabel[y] = append(byLabel[y], i)
	}
	labels := make([]int, 0, len(byLabel))
	for y := range byLabel {
		labels = append(labels, y)
	}
	sort.Ints(labels)

	var trainIdx, testIdx []int
	for _, y := range labels {
		idx := byLabel[y]
		perm := rng.Perm(len(idx))
		nTrain := int((1 - testRatio) * float64(len(idx)))
		for k, p := range perm {
			if k < nTrain {
				trainIdx = append(trainIdx, idx[p])
			} else {
				testIdx = append(testIdx, idx[p])
			}
		}
	}
	rng.Shuffle(len(trainIdx), func(i, j int) { trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i] })
	rng.Shuffle(len(testIdx), func(i, j int) { testIdx[i], testIdx[j] = testIdx[j], testIdx[i] })
	return ds.Subset(trainIdx), ds.Subset(testIdx)
}
