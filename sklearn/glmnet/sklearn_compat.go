package glmnet

import (
	"github.com/YuminosukeSato/glmnet/core/model"
	"github.com/YuminosukeSato/glmnet/pkg/errors"
	"github.com/YuminosukeSato/glmnet/sklearn/glmnet/binding"
)

// Params returns a copy of the current hyperparameters.
func (lr *LogisticRegression) Params() Params {
	return lr.params.clone()
}

// SetParamsTyped replaces all hyperparameters. It does not validate; Fit does.
// The fitted model, if any, is kept.
func (lr *LogisticRegression) SetParamsTyped(p Params) {
	lr.params = p.clone()
}

// GetParams returns the hyperparameters keyed by their scikit-learn names.
// "alpha" is nil when it is derived from the penalty.
func (lr *LogisticRegression) GetParams(deep bool) map[string]interface{} {
	p := lr.params
	var alpha interface{}
	if p.Alpha != nil {
		alpha = *p.Alpha
	}
	return map[string]interface{}{
		"penalty": p.Penalty,
		"C":       p.C,
		"alpha":   alpha,
		"nlambda": p.NLambda,
		"binding": p.Binding,
	}
}

// SetParams updates the hyperparameters named in params. Unknown keys and
// values of the wrong type are rejected with a ValidationError, and then
// nothing is changed.
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	next := lr.params.clone()
	for key, value := range params {
		switch key {
		case "penalty":
			s, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			next.Penalty = s
		case "C":
			f, ok := toFloat(value)
			if !ok {
				return errors.NewValidationError(key, "must be a number", value)
			}
			next.C = f
		case "alpha":
			switch v := value.(type) {
			case nil:
				next.Alpha = nil
			case *float64:
				next.Alpha = nil
				if v != nil {
					next.Alpha = Float64(*v)
				}
			default:
				f, ok := toFloat(value)
				if !ok {
					return errors.NewValidationError(key, "must be a number or nil", value)
				}
				next.Alpha = Float64(f)
			}
		case "nlambda":
			n, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			next.NLambda = n
		case "binding":
			if value == nil {
				next.Binding = nil
				break
			}
			b, ok := value.(binding.Binding)
			if !ok {
				return errors.NewValidationError(key, "must implement binding.Binding", value)
			}
			next.Binding = b
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	lr.params = next
	return nil
}

// Clone returns an unfitted estimator with the same hyperparameters. The
// binding instance is shared.
func (lr *LogisticRegression) Clone() model.SKLearnCompatible {
	return &LogisticRegression{
		state:  model.NewStateManager(),
		params: lr.params.clone(),
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case int:
		return float64(f), true
	}
	return 0, false
}
