// Package pipeline chains transformers in front of a classifier so that the
// whole chain can be fitted, scored and tuned as one estimator.
package pipeline

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/glmnet/core/model"
	"github.com/YuminosukeSato/glmnet/pkg/errors"
)

// ParamSep separates the step name from the parameter name, as in "clf__C".
const ParamSep = "__"

// Step is one named stage of a Pipeline. Every step but the last must also
// implement model.Transformer; the last must implement model.Classifier.
type Step struct {
	Name      string
	Estimator model.SKLearnCompatible
}

// Pipeline applies its transformers in order and fits the final classifier on
// their output.
type Pipeline struct {
	steps []Step
	state *model.StateManager
}

// New validates the steps and builds a Pipeline.
func New(steps ...Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, errors.NewValidationError("steps", "at least one step is required", 0)
	}
	seen := make(map[string]bool, len(steps))
	for i, s := range steps {
		if s.Name == "" || strings.Contains(s.Name, ParamSep) {
			return nil, errors.NewValidationError("steps", "step names must be non-empty and must not contain '"+ParamSep+"'", s.Name)
		}
		if seen[s.Name] {
			return nil, errors.NewValidationError("steps", "duplicate step name", s.Name)
		}
		seen[s.Name] = true

		if s.Estimator == nil {
			return nil, errors.NewValidationError("steps", "step has no estimator", s.Name)
		}
		if i < len(steps)-1 {
			if _, ok := s.Estimator.(model.Transformer); !ok {
				return nil, errors.NewValidationError("steps", "intermediate step must be a Transformer", s.Name)
			}
		} else if _, ok := s.Estimator.(model.Classifier); !ok {
			return nil, errors.NewValidationError("steps", "final step must be a Classifier", s.Name)
		}
	}

	return &Pipeline{
		steps: append([]Step(nil), steps...),
		state: model.NewStateManager(),
	}, nil
}

func (p *Pipeline) final() model.Classifier {
	return p.steps[len(p.steps)-1].Estimator.(model.Classifier)
}

// Fit fits a fresh clone of each transformer on the output of the previous
// one, then a clone of the classifier. The clones replace the steps only
// when every fit succeeds, so a failed Fit leaves the pipeline as it was.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	fitted := make([]Step, len(p.steps))
	last := len(p.steps) - 1

	Xt := X
	for i, s := range p.steps[:last] {
		est := s.Estimator.Clone()
		var err error
		Xt, err = est.(model.Transformer).FitTransform(Xt)
		if err != nil {
			return errors.Wrapf(err, "pipeline step %q", s.Name)
		}
		fitted[i] = Step{Name: s.Name, Estimator: est}
	}

	clf := p.steps[last].Estimator.Clone()
	if err := clf.(model.Classifier).Fit(Xt, y); err != nil {
		return err
	}
	fitted[last] = Step{Name: p.steps[last].Name, Estimator: clf}

	p.steps = fitted
	r, c := X.Dims()
	p.state.SetFitted(c, r)
	return nil
}

// Transform runs X through the fitted transformers only.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.state.RequireFitted("Pipeline", "Transform"); err != nil {
		return nil, err
	}
	Xt := X
	for _, s := range p.steps[:len(p.steps)-1] {
		var err error
		Xt, err = s.Estimator.(model.Transformer).Transform(Xt)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline step %q", s.Name)
		}
	}
	return Xt, nil
}

// Predict transforms X and predicts with the final classifier.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	Xt, err := p.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.final().Predict(Xt)
}

// PredictProba transforms X and returns the final classifier's probabilities.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	Xt, err := p.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.final().PredictProba(Xt)
}

// Score transforms X and returns the final classifier's score.
func (p *Pipeline) Score(X, y mat.Matrix) (float64, error) {
	Xt, err := p.Transform(X)
	if err != nil {
		return 0, err
	}
	return p.final().Score(Xt, y)
}

// Classes returns the final classifier's classes.
func (p *Pipeline) Classes() []float64 {
	return p.final().Classes()
}

// Step returns the estimator of the named step, or nil.
func (p *Pipeline) Step(name string) model.SKLearnCompatible {
	for _, s := range p.steps {
		if s.Name == name {
			return s.Estimator
		}
	}
	return nil
}

// GetParams returns every step's parameters as "step__param".
func (p *Pipeline) GetParams(deep bool) map[string]interface{} {
	out := make(map[string]interface{})
	for _, s := range p.steps {
		for k, v := range s.Estimator.GetParams(deep) {
			out[s.Name+ParamSep+k] = v
		}
	}
	return out
}

// SetParams routes "step__param" keys to their steps. Every step's update is
// first tried on a clone, so an unknown step or a rejected value leaves all
// steps unchanged.
func (p *Pipeline) SetParams(params map[string]interface{}) error {
	byStep := make(map[string]map[string]interface{})
	for key, value := range params {
		name, param, ok := strings.Cut(key, ParamSep)
		if !ok || p.Step(name) == nil {
			return errors.NewValidationError(key, "expected '<step>"+ParamSep+"<param>' with a known step", value)
		}
		if byStep[name] == nil {
			byStep[name] = make(map[string]interface{})
		}
		byStep[name][param] = value
	}

	names := make([]string, 0, len(byStep))
	for name := range byStep {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := p.Step(name).Clone().SetParams(byStep[name]); err != nil {
			return err
		}
	}
	for _, name := range names {
		if err := p.Step(name).SetParams(byStep[name]); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an unfitted pipeline of cloned steps.
func (p *Pipeline) Clone() model.SKLearnCompatible {
	steps := make([]Step, len(p.steps))
	for i, s := range p.steps {
		steps[i] = Step{Name: s.Name, Estimator: s.Estimator.Clone()}
	}
	return &Pipeline{steps: steps, state: model.NewStateManager()}
}
