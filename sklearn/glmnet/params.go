package glmnet

import (
	"math"

	"github.com/YuminosukeSato/glmnet/pkg/errors"
	"github.com/YuminosukeSato/glmnet/sklearn/glmnet/binding"
)

// Penalty names accepted by LogisticRegression.
const (
	PenaltyL1 = "l1"
	PenaltyL2 = "l2"
)

// Default hyperparameters.
const (
	DefaultPenalty = PenaltyL2
	DefaultC       = 1.0
	DefaultNLambda = 100
)

// Params holds the hyperparameters of LogisticRegression.
type Params struct {
	// Penalty is "l1" or "l2".
	Penalty string
	// C is the inverse regularization strength; must be positive.
	C float64
	// Alpha is the elastic-net mixing parameter in [0, 1]. When set it
	// overrides Penalty; nil derives it from Penalty (l1 → 1, l2 → 0).
	Alpha *float64
	// NLambda is the number of path points requested from the binding.
	NLambda int
	// Binding computes the path; nil means binding.Default().
	Binding binding.Binding
}

// DefaultParams returns the default hyperparameters.
func DefaultParams() Params {
	return Params{
		Penalty: DefaultPenalty,
		C:       DefaultC,
		NLambda: DefaultNLambda,
	}
}

// Float64 returns a pointer to v, for Params.Alpha.
func Float64(v float64) *float64 {
	return &v
}

// clone copies p so that Alpha is not shared.
func (p Params) clone() Params {
	if p.Alpha != nil {
		p.Alpha = Float64(*p.Alpha)
	}
	return p
}

// Validate checks every hyperparameter and returns a ValidationError for the
// first invalid one.
func (p Params) Validate() error {
	if p.Penalty != PenaltyL1 && p.Penalty != PenaltyL2 {
		return errors.NewValidationError("penalty", "must be 'l1' or 'l2'", p.Penalty)
	}
	if !(p.C > 0) || math.IsInf(p.C, 0) {
		return errors.NewValidationError("C", "must be a positive finite number", p.C)
	}
	if p.Alpha != nil {
		a := *p.Alpha
		if math.IsNaN(a) || a < 0 || a > 1 {
			return errors.NewValidationError("alpha", "must be in the range [0, 1]", a)
		}
	}
	if p.NLambda < 1 {
		return errors.NewValidationError("nlambda", "must be at least 1", p.NLambda)
	}
	return nil
}

// EffectiveAlpha returns Alpha when set, otherwise 1 for l1 and 0 for l2.
func (p Params) EffectiveAlpha() float64 {
	if p.Alpha != nil {
		return *p.Alpha
	}
	if p.Penalty == PenaltyL1 {
		return 1.0
	}
	return 0.0
}

// Lambda returns the regularization strength implied by C for nSamples rows.
func (p Params) Lambda(nSamples int) float64 {
	return 1.0 / (p.C * float64(nSamples))
}

// Option configures a LogisticRegression at construction.
type Option func(*Params)

// WithPenalty sets the penalty ("l1" or "l2").
func WithPenalty(penalty string) Option {
	return func(p *Params) { p.Penalty = penalty }
}

// WithC sets the inverse regularization strength.
func WithC(c float64) Option {
	return func(p *Params) { p.C = c }
}

// WithAlpha sets the elastic-net mixing parameter, overriding the penalty.
func WithAlpha(alpha float64) Option {
	return func(p *Params) { p.Alpha = Float64(alpha) }
}

// WithNLambda sets the number of path points.
func WithNLambda(n int) Option {
	return func(p *Params) { p.NLambda = n }
}

// WithBinding injects the path solver.
func WithBinding(b binding.Binding) Option {
	return func(p *Params) { p.Binding = b }
}
