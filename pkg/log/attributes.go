// Package log defines standard attribute keys for machine learning operations.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples")
// so that fit and predict events from every estimator can be filtered the
// same way.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of estimator, e.g. "LogisticRegression".
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies a specific estimator instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey is one of the Operation* values below.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package doing the work, e.g. "glmnet.binding".
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ClassesKey  = "data.classes"

	// SparseKey is true when the feature matrix was iterated by non-zeros.
	SparseKey = "data.sparse"
)

// Performance and training progress.
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	LossKey       = "metrics.loss"
	IterationKey  = "training.iteration"
	EpochKey      = "training.epoch"
)

// Prediction output.
const (
	PredsKey     = "preds.count"
	ThresholdKey = "preds.threshold"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	ErrorTypeKey  = "error.type"
	SuggestionKey = "error.suggestion"
)

// Hyperparameters. The regularization path keys mirror glmnet's argument names.
const (
	HyperParamsKey    = "model.hyperparams"
	PenaltyKey        = "hyperparams.penalty"
	RegularizationKey = "hyperparams.regularization"
	AlphaKey          = "hyperparams.alpha"
	LambdaKey         = "hyperparams.lambda"
	NLambdaKey        = "hyperparams.nlambda"
	SolverKey         = "hyperparams.solver"
	RandomSeedKey     = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationPredictProba = "predict_proba"
	OperationScore        = "score"
	OperationBindingFit   = "binding_fit"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseInference  = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
)
