// Package datasets generates synthetic data and splits it for training and
// evaluation, in the manner of scikit-learn's make_classification and
// train_test_split.
package datasets

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/glmnet/pkg/errors"
)

type classificationConfig struct {
	nInformative int
	nZero        int
	classSep     float64
	flipY        float64
	randomState  int64
}

// ClassificationOption configures MakeClassification.
type ClassificationOption func(*classificationConfig)

// WithInformative sets how many leading features carry signal.
func WithInformative(n int) ClassificationOption {
	return func(c *classificationConfig) { c.nInformative = n }
}

// WithZeroFeatures sets how many trailing features are identically zero.
func WithZeroFeatures(n int) ClassificationOption {
	return func(c *classificationConfig) { c.nZero = n }
}

// WithClassSep scales the true decision function; larger is easier.
func WithClassSep(sep float64) ClassificationOption {
	return func(c *classificationConfig) { c.classSep = sep }
}

// WithFlipY sets the fraction of labels that are flipped at random.
func WithFlipY(frac float64) ClassificationOption {
	return func(c *classificationConfig) { c.flipY = frac }
}

// WithRandomState sets the generator seed.
func WithRandomState(seed int64) ClassificationOption {
	return func(c *classificationConfig) { c.randomState = seed }
}

// MakeClassification draws a binary problem with labels in {0, 1}.
//
// Features are standard normal. The first nInformative features get true
// weights drawn from N(0, 1); the rest are noise, except the last nZero
// columns which are always 0. Labels are Bernoulli(σ(classSep · w·x)) so the
// classes overlap, then a flipY fraction of them is inverted.
func MakeClassification(nSamples, nFeatures int, opts ...ClassificationOption) (*mat.Dense, *mat.VecDense, error) {
	cfg := classificationConfig{
		nInformative: 2,
		classSep:     1.0,
		flipY:        0.01,
		randomState:  0,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if nSamples < 1 {
		return nil, nil, errors.NewValidationError("n_samples", "must be at least 1", nSamples)
	}
	if nFeatures < 1 {
		return nil, nil, errors.NewValidationError("n_features", "must be at least 1", nFeatures)
	}
	if cfg.nZero < 0 || cfg.nInformative < 1 || cfg.nInformative+cfg.nZero > nFeatures {
		return nil, nil, errors.NewValidationError("n_informative",
			"n_informative must be >= 1 and n_informative + n_zero must not exceed n_features", cfg.nInformative)
	}
	if cfg.flipY < 0 || cfg.flipY > 1 || math.IsNaN(cfg.flipY) {
		return nil, nil, errors.NewValidationError("flip_y", "must be in [0, 1]", cfg.flipY)
	}

	rng := rand.New(rand.NewSource(cfg.randomState))

	w := make([]float64, cfg.nInformative)
	for j := range w {
		w[j] = rng.NormFloat64()
	}

	live := nFeatures - cfg.nZero
	X := mat.NewDense(nSamples, nFeatures, nil)
	y := mat.NewVecDense(nSamples, nil)
	for i := 0; i < nSamples; i++ {
		row := X.RawRowView(i)
		z := 0.0
		for j := 0; j < live; j++ {
			row[j] = rng.NormFloat64()
			if j < cfg.nInformative {
				z += w[j] * row[j]
			}
		}
		p := 1.0 / (1.0 + math.Exp(-cfg.classSep*z))
		label := 0.0
		if rng.Float64() < p {
			label = 1
		}
		if rng.Float64() < cfg.flipY {
			label = 1 - label
		}
		y.SetVec(i, label)
	}
	return X, y, nil
}
