// Package linear_model provides a general-purpose binary logistic regression
// solver. The glmnet binding delegates to it, and it can also be used on its own.
package linear_model

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/glmnet/core/model"
	"github.com/YuminosukeSato/glmnet/core/parallel"
	glmErrors "github.com/YuminosukeSato/glmnet/pkg/errors"
	"github.com/YuminosukeSato/glmnet/pkg/log"
)

// Penalty and solver names accepted by LogisticRegression.
const (
	PenaltyL1   = "l1"
	PenaltyL2   = "l2"
	PenaltyNone = "none"

	SolverLBFGS = "lbfgs"
	SolverSAGA  = "saga"
)

// LogisticRegression implements binary logistic regression.
// Compatible with scikit-learn's LogisticRegression for two classes.
//
// The objective is
//
//	C * Σ log(1 + exp(-y_i (w·x_i + b))) + R(w)
//
// with R(w) = ||w||₁ for "l1" and ½||w||² for "l2". The intercept is never
// penalized. Solvers work on the equivalent mean-loss form with
// lambda = 1 / (C * n_samples).
type LogisticRegression struct {
	state *model.StateManager // State management (composition)

	// Hyperparameters
	penalty      string  // "l1", "l2", "none"
	C            float64 // Inverse regularization strength
	solver       string  // "lbfgs", "saga"
	tol          float64 // Tolerance for stopping
	maxIter      int     // Maximum iterations (epochs for saga)
	fitIntercept bool    // Whether to fit intercept
	randomState  int64   // Random seed for saga sample order, <0 for nondeterministic

	// Model parameters
	coef_      []float64 // Coefficients (n_features)
	intercept_ float64   // Intercept term
	classes_   []float64 // Sorted class labels
	nIter_     int       // Actual iterations
}

// LogisticRegressionOption is a functional option for LogisticRegression
type LogisticRegressionOption func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier
func NewLogisticRegression(opts ...LogisticRegressionOption) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      PenaltyL2,
		C:            1.0,
		solver:       SolverLBFGS,
		tol:          1e-4,
		maxIter:      100,
		fitIntercept: true,
		randomState:  0,
	}

	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

// WithLRPenalty sets the regularization type
func WithLRPenalty(penalty string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithLRC sets the inverse regularization strength
func WithLRC(c float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.C = c
	}
}

// WithLRSolver sets the optimization solver
func WithLRSolver(solver string) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.solver = solver
	}
}

// WithLRTol sets the tolerance for stopping criteria
func WithLRTol(tol float64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithLRMaxIter sets the maximum number of iterations
func WithLRMaxIter(maxIter int) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithLogisticFitIntercept sets whether to fit intercept
func WithLogisticFitIntercept(fit bool) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithLRRandomState sets the random seed used by the saga solver
func WithLRRandomState(seed int64) LogisticRegressionOption {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// validate checks hyperparameters before any work is done.
func (lr *LogisticRegression) validate() error {
	switch lr.penalty {
	case PenaltyL1, PenaltyL2, PenaltyNone:
	default:
		return glmErrors.NewValidationError("penalty", "must be one of 'l1', 'l2' or 'none'", lr.penalty)
	}
	switch lr.solver {
	case SolverLBFGS, SolverSAGA:
	default:
		return glmErrors.NewValidationError("solver", "must be one of 'lbfgs' or 'saga'", lr.solver)
	}
	if lr.solver == SolverLBFGS && lr.penalty == PenaltyL1 {
		return glmErrors.NewValidationError("solver", "lbfgs supports only 'l2' or 'none' penalties, use 'saga' for 'l1'", lr.solver)
	}
	if !(lr.C > 0) || math.IsInf(lr.C, 0) {
		return glmErrors.NewValidationError("C", "must be a positive finite number", lr.C)
	}
	if !(lr.tol > 0) {
		return glmErrors.NewValidationError("tol", "must be positive", lr.tol)
	}
	if lr.maxIter < 1 {
		return glmErrors.NewValidationError("max_iter", "must be at least 1", lr.maxIter)
	}
	return nil
}

// Fit trains the model. y must be a column vector with exactly two distinct
// labels. On error the previously fitted parameters are kept.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	defer glmErrors.Recover(&err, "LogisticRegression.Fit")

	if err := lr.validate(); err != nil {
		return err
	}

	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 || nFeatures == 0 {
		return glmErrors.NewModelError("LogisticRegression.Fit", "found array with 0 samples", glmErrors.ErrEmptyData)
	}
	if nSamples != yRows {
		return glmErrors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return glmErrors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}

	classes := model.UniqueLabels(y)
	if len(classes) != 2 {
		return glmErrors.NewValueError("LogisticRegression.Fit",
			"only binary classification is supported, got "+strconv.Itoa(len(classes))+" classes")
	}

	// Convert labels to 0/1
	target := make([]float64, nSamples)
	for i := range target {
		if y.At(i, 0) == classes[1] {
			target[i] = 1
		}
	}

	rows := model.NewRows(X)
	lambda := 0.0
	if lr.penalty != PenaltyNone {
		lambda = 1.0 / (lr.C * float64(nSamples))
	}

	logger := log.GetLoggerWithName("linear_model.logistic").With(
		log.ModelNameKey, "LogisticRegression",
	)
	logger.Debug("fit started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.PenaltyKey, lr.penalty,
		log.SolverKey, lr.solver,
		log.LambdaKey, lambda,
		log.SparseKey, rows.Sparse(),
	)

	problem := &binaryProblem{
		rows:         rows,
		target:       target,
		lambda:       lambda,
		penalty:      lr.penalty,
		fitIntercept: lr.fitIntercept,
	}

	var res *solveResult
	switch lr.solver {
	case SolverSAGA:
		res, err = solveSAGA(problem, lr.tol, lr.maxIter, lr.randomState)
	default:
		res, err = solveLBFGS(problem, lr.tol, lr.maxIter)
	}
	if err != nil {
		logger.Error("fit failed", err, log.SolverKey, lr.solver)
		return err
	}

	if !res.converged {
		glmErrors.Warn(glmErrors.NewConvergenceWarning(lr.solver, res.nIter,
			"the maximum number of iterations was reached before the coefficients converged; increase max_iter"))
	}

	lr.coef_ = res.coef
	lr.intercept_ = res.intercept
	lr.classes_ = classes
	lr.nIter_ = res.nIter
	lr.state.SetFitted(nFeatures, nSamples)

	logger.Debug("fit completed",
		log.IterationKey, res.nIter,
		"converged", res.converged,
	)
	return nil
}

// DecisionFunction returns w·x + b for each row of X as an n×1 matrix.
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "DecisionFunction"); err != nil {
		return nil, err
	}
	return lr.decision(X, "DecisionFunction")
}

func (lr *LogisticRegression) decision(X mat.Matrix, op string) (*mat.VecDense, error) {
	nSamples, nFeatures := X.Dims()
	if nFeatures != len(lr.coef_) {
		return nil, glmErrors.NewDimensionError(op, len(lr.coef_), nFeatures, 1)
	}

	rows := model.NewRows(X)
	scores := make([]float64, nSamples)
	parallel.ParallelizeWithThreshold(nSamples, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			scores[i] = rows.Dot(i, lr.coef_) + lr.intercept_
		}
	})
	if nSamples == 0 {
		return &mat.VecDense{}, nil
	}
	return mat.NewVecDense(nSamples, scores), nil
}

// Predict returns the predicted class label for each row of X.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "Predict"); err != nil {
		return nil, err
	}
	scores, err := lr.decision(X, "Predict")
	if err != nil {
		return nil, err
	}

	n := scores.Len()
	if n == 0 {
		return scores, nil
	}
	predictions := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if scores.AtVec(i) > 0 {
			predictions.SetVec(i, lr.classes_[1])
		} else {
			predictions.SetVec(i, lr.classes_[0])
		}
	}
	return predictions, nil
}

// PredictProba returns probability estimates [P(classes[0]), P(classes[1])]
// for each row of X.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "PredictProba"); err != nil {
		return nil, err
	}
	scores, err := lr.decision(X, "PredictProba")
	if err != nil {
		return nil, err
	}

	n := scores.Len()
	if n == 0 {
		return &mat.Dense{}, nil
	}
	probas := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		p := sigmoid(scores.AtVec(i))
		probas.Set(i, 0, 1-p)
		probas.Set(i, 1, p)
	}
	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()
	if yRows != nSamples {
		return 0, glmErrors.NewDimensionError("Score", nSamples, yRows, 0)
	}
	if nSamples == 0 {
		return 0, glmErrors.NewModelError("Score", "found array with 0 samples", glmErrors.ErrEmptyData)
	}

	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(nSamples), nil
}

// Coef returns a copy of the fitted coefficients.
func (lr *LogisticRegression) Coef() []float64 {
	if lr.coef_ == nil {
		return nil
	}
	out := make([]float64, len(lr.coef_))
	copy(out, lr.coef_)
	return out
}

// Intercept returns the fitted intercept.
func (lr *LogisticRegression) Intercept() float64 {
	return lr.intercept_
}

// Classes returns the sorted class labels seen during Fit.
func (lr *LogisticRegression) Classes() []float64 {
	if lr.classes_ == nil {
		return nil
	}
	out := make([]float64, len(lr.classes_))
	copy(out, lr.classes_)
	return out
}

// NIter returns the number of iterations the solver ran.
func (lr *LogisticRegression) NIter() int {
	return lr.nIter_
}

// IsFitted reports whether Fit has completed successfully.
func (lr *LogisticRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// GetParams returns the model hyperparameters
func (lr *LogisticRegression) GetParams(deep bool) map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.C,
		"solver":        lr.solver,
		"tol":           lr.tol,
		"max_iter":      lr.maxIter,
		"fit_intercept": lr.fitIntercept,
		"random_state":  lr.randomState,
	}
}

// SetParams sets the model hyperparameters. Either every key is applied or
// none is.
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	next := *lr
	for key, value := range params {
		var ok bool
		switch key {
		case "penalty":
			next.penalty, ok = value.(string)
		case "C":
			next.C, ok = toFloat(value)
		case "solver":
			next.solver, ok = value.(string)
		case "tol":
			next.tol, ok = toFloat(value)
		case "max_iter":
			next.maxIter, ok = value.(int)
		case "fit_intercept":
			next.fitIntercept, ok = value.(bool)
		case "random_state":
			switch v := value.(type) {
			case int64:
				next.randomState, ok = v, true
			case int:
				next.randomState, ok = int64(v), true
			}
		default:
			return glmErrors.NewValidationError(key, "unknown parameter", value)
		}
		if !ok {
			return glmErrors.NewValidationError(key, "unsupported value type", value)
		}
	}
	*lr = next
	return nil
}

// Clone returns an unfitted copy with the same hyperparameters.
func (lr *LogisticRegression) Clone() model.SKLearnCompatible {
	return &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      lr.penalty,
		C:            lr.C,
		solver:       lr.solver,
		tol:          lr.tol,
		maxIter:      lr.maxIter,
		fitIntercept: lr.fitIntercept,
		randomState:  lr.randomState,
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case int:
		return float64(f), true
	}
	return 0, false
}

// sigmoid computes the logistic function without overflow.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1.0 / (1.0 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1.0 + e)
}

// logLoss returns -[y log σ(z) + (1-y) log(1-σ(z))] for y in {0,1}.
func logLoss(z, y float64) float64 {
	// softplus(z) - y*z
	sp := math.Max(z, 0) + math.Log1p(math.Exp(-math.Abs(z)))
	return sp - y*z
}
