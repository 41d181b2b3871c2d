// Package binding defines the boundary between the glmnet estimator and the
// elastic-net solver that computes a regularization path.
//
// A native solver can be plugged in with Register. Until one is registered,
// Default returns MockBinding, which fits a single penalized model with the
// general-purpose solver in sklearn/linear_model and presents it as a path.
package binding

import (
	"gonum.org/v1/gonum/mat"
)

// Binding fits a binary logistic regularization path.
//
// X is n_samples × n_features (dense, or sparse via mat.RowNonZeroDoer), y is
// an n_samples column of labels with exactly two distinct values, alpha is the
// elastic-net mixing parameter in [0, 1] (1 = lasso, 0 = ridge) and nlambda is
// the number of path points requested.
type Binding interface {
	Fit(X, y mat.Matrix, alpha float64, nlambda int) (*PathResult, error)
}

// PathResult is the raw output of a path fit, laid out the way glmnet returns it.
type PathResult struct {
	// A0 holds one intercept per path point.
	A0 []float64
	// CA is n_features × nlambda; column k holds the coefficients at point k.
	CA *mat.Dense
	// Lambda holds the regularization value of each column, or nil when the
	// binding does not compute an actual path.
	Lambda []float64
	// NPasses is the total number of solver passes over the data.
	NPasses int
	// JErr is the solver status; 0 means success.
	JErr int
}

// NLambda returns the number of path points.
func (r *PathResult) NLambda() int {
	return len(r.A0)
}

// Point returns the coefficients and intercept of path column k.
func (r *PathResult) Point(k int) (coef []float64, intercept float64) {
	nFeatures, _ := r.CA.Dims()
	coef = make([]float64, nFeatures)
	mat.Col(coef, k, r.CA)
	return coef, r.A0[k]
}
