// Package model_selection provides cross-validation splitters and
// hyperparameter search over scikit-learn style estimators.
package model_selection

import (
	"math/rand"

	"github.com/YuminosukeSato/glmnet/pkg/errors"
)

// Fold holds the row indices of one train/test split.
type Fold struct {
	Train []int
	Test  []int
}

// KFold splits n samples into NSplits consecutive folds. Each fold is used
// once as the test set. The first n % NSplits folds get one extra sample.
type KFold struct {
	NSplits     int
	Shuffle     bool
	RandomState int64
}

// NewKFold returns a KFold without shuffling.
func NewKFold(nSplits int) *KFold {
	return &KFold{NSplits: nSplits}
}

// Split returns the folds for nSamples rows.
func (k *KFold) Split(nSamples int) ([]Fold, error) {
	if k.NSplits < 2 {
		return nil, errors.NewValidationError("n_splits", "must be at least 2", k.NSplits)
	}
	if nSamples < k.NSplits {
		return nil, errors.NewValueError("KFold.Split",
			"cannot have the number of splits greater than the number of samples")
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if k.Shuffle {
		rng := rand.New(rand.NewSource(k.RandomState))
		rng.Shuffle(nSamples, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, 0, k.NSplits)
	start := 0
	for f := 0; f < k.NSplits; f++ {
		size := nSamples / k.NSplits
		if f < nSamples%k.NSplits {
			size++
		}
		end := start + size

		test := append([]int(nil), indices[start:end]...)
		train := make([]int, 0, nSamples-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[end:]...)
		folds = append(folds, Fold{Train: train, Test: test})

		start = end
	}
	return folds, nil
}
