package datasets

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/glmnet/pkg/errors"
)

// TrainTestSplit shuffles the rows of X and y with the given seed and splits
// them so that round(testSize * n) rows go to the test set. Both sets are
// guaranteed to be non-empty.
func TrainTestSplit(X, y mat.Matrix, testSize float64, seed int64) (XTrain, XTest *mat.Dense, yTrain, yTest *mat.VecDense, err error) {
	n, d := X.Dims()
	yRows, _ := y.Dims()
	if n != yRows {
		return nil, nil, nil, nil, errors.NewDimensionError("TrainTestSplit", n, yRows, 0)
	}
	if n < 2 {
		return nil, nil, nil, nil, errors.NewValueError("TrainTestSplit", "need at least 2 samples to split")
	}
	if !(testSize > 0 && testSize < 1) {
		return nil, nil, nil, nil, errors.NewValidationError("test_size", "must be in (0, 1)", testSize)
	}

	nTest := int(testSize*float64(n) + 0.5)
	if nTest < 1 {
		nTest = 1
	}
	if nTest > n-1 {
		nTest = n - 1
	}

	indices := rand.New(rand.NewSource(seed)).Perm(n)
	XTest, yTest = gatherRows(X, y, indices[:nTest], d)
	XTrain, yTrain = gatherRows(X, y, indices[nTest:], d)
	return XTrain, XTest, yTrain, yTest, nil
}

// gatherRows copies the selected rows of X and y into new storage.
func gatherRows(X, y mat.Matrix, idx []int, d int) (*mat.Dense, *mat.VecDense) {
	Xs := mat.NewDense(len(idx), d, nil)
	ys := mat.NewVecDense(len(idx), nil)
	for k, i := range idx {
		for j := 0; j < d; j++ {
			Xs.Set(k, j, X.At(i, j))
		}
		ys.SetVec(k, y.At(i, 0))
	}
	return Xs, ys
}

// SelectRows is gatherRows for callers outside the package, e.g. cross-validation.
func SelectRows(X, y mat.Matrix, idx []int) (*mat.Dense, *mat.VecDense) {
	_, d := X.Dims()
	return gatherRows(X, y, idx, d)
}
