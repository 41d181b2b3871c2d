// Package glmnet provides a scikit-learn style logistic regression estimator
// backed by a glmnet elastic-net path solver.
//
// The estimator validates its hyperparameters, converts penalty and C into
// glmnet's alpha and lambda, asks a binding.Binding for a regularization path
// and keeps one point of that path as its model:
//
//	clf := glmnet.NewLogisticRegression(glmnet.WithPenalty("l1"), glmnet.WithC(0.5))
//	if err := clf.Fit(X, y); err != nil {
//	    return err
//	}
//	proba, err := clf.PredictProba(XTest)
package glmnet

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/glmnet/core/model"
	"github.com/YuminosukeSato/glmnet/core/parallel"
	"github.com/YuminosukeSato/glmnet/metrics"
	"github.com/YuminosukeSato/glmnet/pkg/errors"
	"github.com/YuminosukeSato/glmnet/pkg/log"
	"github.com/YuminosukeSato/glmnet/sklearn/glmnet/binding"
)

// LogisticRegression is a binary logistic regression classifier fitted
// through a glmnet binding.
type LogisticRegression struct {
	state  *model.StateManager
	params Params

	// learned parameters
	coef_      []float64
	intercept_ float64
	classes_   []float64
	alpha_     float64
	lambda_    float64
	nPasses_   int
}

// LogisticNet is the same estimator under its alternative name.
type LogisticNet = LogisticRegression

// NewLogisticRegression creates an unfitted estimator with DefaultParams
// modified by opts. Hyperparameters are validated by Fit.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	p := DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	return &LogisticRegression{
		state:  model.NewStateManager(),
		params: p,
	}
}

// NewLogisticNet is NewLogisticRegression.
func NewLogisticNet(opts ...Option) *LogisticNet {
	return NewLogisticRegression(opts...)
}

// Fit validates the hyperparameters and the data, fits a path through the
// binding and keeps one of its points.
//
// y must be a single column with exactly two distinct labels. The labels are
// passed to the binding encoded as 0 (Classes()[0]) and 1 (Classes()[1]).
// Errors returned by the binding are passed through unchanged. A failed Fit
// leaves the estimator as it was.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "LogisticRegression.Fit")

	p := lr.params.clone()
	if err := p.Validate(); err != nil {
		return err
	}

	nSamples, nFeatures := X.Dims()
	if nSamples == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "found array with 0 samples", errors.ErrEmptyData)
	}
	if nFeatures == 0 {
		return errors.NewModelError("LogisticRegression.Fit", "found array with 0 features", errors.ErrEmptyData)
	}
	yRows, yCols := y.Dims()
	if yRows != nSamples {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("LogisticRegression.Fit", 1, yCols, 1)
	}

	classes := model.UniqueLabels(y)
	if len(classes) != 2 {
		return errors.NewValueError("LogisticRegression.Fit",
			"only binary classification is supported, got "+strconv.Itoa(len(classes))+" classes")
	}

	encoded := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		if y.At(i, 0) == classes[1] {
			encoded.SetVec(i, 1)
		}
	}

	alpha := p.EffectiveAlpha()
	lambda := p.Lambda(nSamples)
	b := p.Binding
	if b == nil {
		b = binding.Default()
	}

	logger := log.GetLoggerWithName("glmnet.logistic").With(
		log.ModelNameKey, "LogisticRegression",
	)
	logger.Debug("fit started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.PenaltyKey, p.Penalty,
		log.AlphaKey, alpha,
		log.LambdaKey, lambda,
		log.NLambdaKey, p.NLambda,
	)

	res, err := b.Fit(X, encoded, alpha, p.NLambda)
	if err != nil {
		logger.Error("binding fit failed", err, log.AlphaKey, alpha)
		return err
	}
	if err := checkPath(res, nFeatures); err != nil {
		logger.Error("binding returned an unusable path", err)
		return err
	}

	col := selectColumn(res, lambda)
	coef, intercept := res.Point(col)
	if err := errors.CheckNumericalStability("LogisticRegression.Fit", append(coef, intercept), col); err != nil {
		return err
	}

	lr.coef_ = coef[:nFeatures]
	lr.intercept_ = intercept
	lr.classes_ = classes
	lr.alpha_ = alpha
	lr.lambda_ = lambda
	lr.nPasses_ = res.NPasses
	lr.state.SetFitted(nFeatures, nSamples)

	logger.Info("fit completed",
		log.ClassesKey, classes,
		"path_column", col,
		"n_passes", res.NPasses,
	)
	return nil
}

// checkPath rejects binding output that cannot be read as a path over nFeatures.
func checkPath(res *binding.PathResult, nFeatures int) error {
	if res == nil || res.CA == nil {
		return errors.NewModelError("LogisticRegression.Fit", "binding returned no path", nil)
	}
	if res.JErr != 0 {
		return errors.NewModelError("LogisticRegression.Fit",
			"glmnet solver reported jerr="+strconv.Itoa(res.JErr), nil)
	}
	rows, cols := res.CA.Dims()
	if rows != nFeatures || cols != len(res.A0) || cols == 0 {
		return errors.NewInputShapeError("path", []int{nFeatures, len(res.A0)}, []int{rows, cols})
	}
	if res.Lambda != nil && len(res.Lambda) != cols {
		return errors.NewDimensionError("LogisticRegression.Fit", cols, len(res.Lambda), 1)
	}
	return nil
}

// selectColumn picks the path point whose lambda is closest to the implied
// lambda, or the last point when the path carries no lambdas.
func selectColumn(res *binding.PathResult, lambda float64) int {
	if len(res.Lambda) == 0 {
		return res.NLambda() - 1
	}
	best, bestDist := 0, math.Inf(1)
	for k, l := range res.Lambda {
		if d := math.Abs(l - lambda); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

// DecisionFunction returns coef·x + intercept for each row of X.
func (lr *LogisticRegression) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "DecisionFunction"); err != nil {
		return nil, err
	}
	return lr.decision(X, "DecisionFunction")
}

func (lr *LogisticRegression) decision(X mat.Matrix, op string) (*mat.VecDense, error) {
	nSamples, nFeatures := X.Dims()
	if nFeatures != len(lr.coef_) {
		return nil, errors.NewDimensionError("LogisticRegression."+op, len(lr.coef_), nFeatures, 1)
	}
	if nSamples == 0 {
		return &mat.VecDense{}, nil
	}

	rows := model.NewRows(X)
	scores := make([]float64, nSamples)
	parallel.ParallelizeWithThreshold(nSamples, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			scores[i] = rows.Dot(i, lr.coef_) + lr.intercept_
		}
	})
	return mat.NewVecDense(nSamples, scores), nil
}

// Predict returns Classes()[1] where the decision function is positive and
// Classes()[0] elsewhere.
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
	labels := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		if scores.AtVec(i) > 0 {
			labels.SetVec(i, lr.classes_[1])
		} else {
			labels.SetVec(i, lr.classes_[0])
		}
	}
	return labels, nil
}

// PredictProba returns an n×2 matrix whose columns are the probabilities of
// Classes()[0] and Classes()[1].
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
	proba := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		p := sigmoid(scores.AtVec(i))
		proba.Set(i, 0, 1-p)
		proba.Set(i, 1, p)
	}
	return proba, nil
}

// Score returns the mean accuracy of Predict(X) against y.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()
	if yRows != nSamples {
		return 0, errors.NewDimensionError("LogisticRegression.Score", nSamples, yRows, 0)
	}
	if nSamples == 0 {
		return 0, errors.NewModelError("LogisticRegression.Score", "found array with 0 samples", errors.ErrEmptyData)
	}
	return metrics.Accuracy(columnVec(y), pred.(*mat.VecDense))
}

func columnVec(m mat.Matrix) *mat.VecDense {
	if v, ok := m.(*mat.VecDense); ok {
		return v
	}
	r, _ := m.Dims()
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}

// Coef returns the coefficients as a 1×n_features matrix, or nil before Fit.
func (lr *LogisticRegression) Coef() *mat.Dense {
	if !lr.state.IsFitted() {
		return nil
	}
	c := make([]float64, len(lr.coef_))
	copy(c, lr.coef_)
	return mat.NewDense(1, len(c), c)
}

// Intercept returns the intercept as a slice of length 1, or nil before Fit.
func (lr *LogisticRegression) Intercept() []float64 {
	if !lr.state.IsFitted() {
		return nil
	}
	return []float64{lr.intercept_}
}

// Classes returns the two class labels in ascending order, or nil before Fit.
func (lr *LogisticRegression) Classes() []float64 {
	if !lr.state.IsFitted() {
		return nil
	}
	return []float64{lr.classes_[0], lr.classes_[1]}
}

// NFeatures returns the number of features seen by Fit.
func (lr *LogisticRegression) NFeatures() int {
	n, _ := lr.state.GetDimensions()
	return n
}

// Alpha returns the mixing parameter used by the last successful Fit.
func (lr *LogisticRegression) Alpha() float64 { return lr.alpha_ }

// Lambda returns the implied regularization strength 1/(C·n_samples) of the
// last successful Fit.
func (lr *LogisticRegression) Lambda() float64 { return lr.lambda_ }

// NPasses returns the pass count reported by the binding.
func (lr *LogisticRegression) NPasses() int { return lr.nPasses_ }

// IsFitted reports whether Fit has completed successfully.
func (lr *LogisticRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// Tags describes the estimator's capabilities.
func (lr *LogisticRegression) Tags() model.Tags {
	return model.Tags{BinaryOnly: true, AllowSparse: true}
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
