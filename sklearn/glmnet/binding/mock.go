package binding

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/glmnet/pkg/errors"
	"github.com/YuminosukeSato/glmnet/pkg/log"
	"github.com/YuminosukeSato/glmnet/sklearn/linear_model"
)

// Settings used by MockBinding for the delegated solve. The large C leaves
// the fit nearly unpenalized, which is the small-lambda end of a glmnet path.
const (
	MockC       = 1e5
	MockSolver  = linear_model.SolverSAGA
	MockTol     = 1e-4
	MockMaxIter = 1000
	// MockNPasses is reported as NPasses; the mock does not count passes.
	MockNPasses = 100
)

// MockBinding satisfies Binding without a native elastic-net solver.
//
// alpha == 1 maps to an l1 penalty and every other value to l2. The single
// solution is replicated into every column of the path, so A0 and CA have
// nlambda identical entries and Lambda is nil.
type MockBinding struct {
	c           float64
	randomState int64
}

// MockOption configures a MockBinding.
type MockOption func(*MockBinding)

// WithMockRandomState sets the seed of the delegated saga solver.
func WithMockRandomState(seed int64) MockOption {
	return func(m *MockBinding) { m.randomState = seed }
}

// WithMockC replaces MockC as the C of the delegated solve. A small C gives
// the mock a strongly penalized point, where l1 zeroes out weak features.
func WithMockC(c float64) MockOption {
	return func(m *MockBinding) { m.c = c }
}

// NewMockBinding creates a MockBinding.
func NewMockBinding(opts ...MockOption) *MockBinding {
	m := &MockBinding{c: MockC}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit implements Binding. Errors from the delegated solver are returned
// unchanged.
func (m *MockBinding) Fit(X, y mat.Matrix, alpha float64, nlambda int) (*PathResult, error) {
	if nlambda < 1 {
		return nil, errors.NewValidationError("nlambda", "must be at least 1", nlambda)
	}

	penalty := linear_model.PenaltyL2
	if alpha == 1.0 {
		penalty = linear_model.PenaltyL1
	}

	logger := log.GetLoggerWithName("glmnet.binding")
	logger.Debug("delegating path fit",
		log.OperationKey, log.OperationBindingFit,
		log.AlphaKey, alpha,
		log.NLambdaKey, nlambda,
		log.PenaltyKey, penalty,
		log.SolverKey, MockSolver,
		log.RegularizationKey, m.c,
	)

	solver := linear_model.NewLogisticRegression(
		linear_model.WithLRPenalty(penalty),
		linear_model.WithLRC(m.c),
		linear_model.WithLRSolver(MockSolver),
		linear_model.WithLRTol(MockTol),
		linear_model.WithLRMaxIter(MockMaxIter),
		linear_model.WithLRRandomState(m.randomState),
	)
	if err := solver.Fit(X, y); err != nil {
		return nil, err
	}

	return replicate(solver.Coef(), solver.Intercept(), nlambda), nil
}

// replicate builds a path whose nlambda points all equal (coef, intercept).
func replicate(coef []float64, intercept float64, nlambda int) *PathResult {
	a0 := make([]float64, nlambda)
	for k := range a0 {
		a0[k] = intercept
	}

	ca := mat.NewDense(len(coef), nlambda, nil)
	for k := 0; k < nlambda; k++ {
		ca.SetCol(k, coef)
	}

	return &PathResult{
		A0:      a0,
		CA:      ca,
		NPasses: MockNPasses,
		JErr:    0,
	}
}
