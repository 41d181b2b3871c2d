package model_selection

import (
	"fmt"
	"runtime"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/glmnet/core/model"
	"github.com/YuminosukeSato/glmnet/core/parallel"
	"github.com/YuminosukeSato/glmnet/datasets"
	"github.com/YuminosukeSato/glmnet/pkg/errors"
	"github.com/YuminosukeSato/glmnet/pkg/log"
)

// ParamGrid maps parameter names to the candidate values to try.
type ParamGrid map[string][]interface{}

// Combinations expands the grid into every parameter setting. Keys are
// iterated in sorted order and the last key varies fastest, so the result is
// deterministic.
func (g ParamGrid) Combinations() []map[string]interface{} {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	combos := []map[string]interface{}{{}}
	for _, k := range keys {
		next := make([]map[string]interface{}, 0, len(combos)*len(g[k]))
		for _, c := range combos {
			for _, v := range g[k] {
				m := make(map[string]interface{}, len(c)+1)
				for ck, cv := range c {
					m[ck] = cv
				}
				m[k] = v
				next = append(next, m)
			}
		}
		combos = next
	}
	return combos
}

// CVResult is the cross-validated score of one parameter setting.
type CVResult struct {
	Params     map[string]interface{}
	FoldScores []float64
	MeanScore  float64
	Rank       int
}

// GridSearchCV evaluates every setting of a ParamGrid with k-fold
// cross-validation, scoring with the estimator's Score (mean accuracy for
// classifiers), and refits the best setting on the full data.
type GridSearchCV struct {
	estimator model.SearchableClassifier
	grid      ParamGrid
	cv        *KFold
	nJobs     int

	results       []CVResult
	bestIndex     int
	bestEstimator model.SearchableClassifier
}

// GridSearchOption configures a GridSearchCV.
type GridSearchOption func(*GridSearchCV)

// WithCV sets the number of folds.
func WithCV(k int) GridSearchOption {
	return func(g *GridSearchCV) { g.cv.NSplits = k }
}

// WithShuffle shuffles rows before splitting into folds.
func WithShuffle(seed int64) GridSearchOption {
	return func(g *GridSearchCV) {
		g.cv.Shuffle = true
		g.cv.RandomState = seed
	}
}

// WithNJobs sets how many candidate fits run concurrently; n < 1 uses every CPU.
func WithNJobs(n int) GridSearchOption {
	return func(g *GridSearchCV) { g.nJobs = n }
}

// NewGridSearchCV creates a search with 5 folds and one job per CPU.
func NewGridSearchCV(estimator model.SearchableClassifier, grid ParamGrid, opts ...GridSearchOption) *GridSearchCV {
	g := &GridSearchCV{
		estimator: estimator,
		grid:      grid,
		cv:        NewKFold(5),
		nJobs:     -1,
		bestIndex: -1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Fit runs the search. Every candidate is fitted on a fresh clone of the
// estimator; the estimator passed to NewGridSearchCV is never modified.
// The first candidate error aborts the search.
func (g *GridSearchCV) Fit(X, y mat.Matrix) error {
	nSamples, _ := X.Dims()
	yRows, _ := y.Dims()
	if nSamples != yRows {
		return errors.NewDimensionError("GridSearchCV.Fit", nSamples, yRows, 0)
	}

	combos := g.grid.Combinations()
	folds, err := g.cv.Split(nSamples)
	if err != nil {
		return err
	}

	logger := log.GetLoggerWithName("model_selection.grid_search")
	logger.Debug("grid search started",
		"candidates", len(combos),
		"folds", len(folds),
		log.SamplesKey, nSamples,
	)

	// one task per (candidate, fold)
	scores := make([]float64, len(combos)*len(folds))
	workers := g.nJobs
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	err = parallel.ForEach(len(scores), workers, func(task int) error {
		c, f := task/len(folds), task%len(folds)
		// パニックする候補は PanicError としてグリッドサーチ全体を失敗させる
		return errors.SafeExecute("GridSearchCV.Fit", func() error {
			est := g.estimator.Clone().(model.SearchableClassifier)
			if err := est.SetParams(combos[c]); err != nil {
				return err
			}

			XTrain, yTrain := datasets.SelectRows(X, y, folds[f].Train)
			XTest, yTest := datasets.SelectRows(X, y, folds[f].Test)
			if err := est.Fit(XTrain, yTrain); err != nil {
				return errors.Wrapf(err, "candidate %v, fold %d", combos[c], f)
			}
			s, err := est.Score(XTest, yTest)
			if err != nil {
				return err
			}
			scores[task] = s
			return nil
		})
	})
	if err != nil {
		logger.Error("grid search failed", err)
		return err
	}

	results := make([]CVResult, len(combos))
	best := 0
	for c := range combos {
		fs := scores[c*len(folds) : (c+1)*len(folds)]
		mean := 0.0
		for _, s := range fs {
			mean += s
		}
		mean /= float64(len(fs))
		results[c] = CVResult{Params: combos[c], FoldScores: append([]float64(nil), fs...), MeanScore: mean}
		if mean > results[best].MeanScore {
			best = c
		}
	}
	rankResults(results)

	refit := g.estimator.Clone().(model.SearchableClassifier)
	if err := refit.SetParams(combos[best]); err != nil {
		return err
	}
	if err := refit.Fit(X, y); err != nil {
		return err
	}

	g.results = results
	g.bestIndex = best
	g.bestEstimator = refit

	logger.Info("grid search completed",
		"best_params", fmt.Sprint(combos[best]),
		"best_score", results[best].MeanScore,
	)
	return nil
}

// rankResults assigns rank 1 to the best mean score; ties share a rank.
func rankResults(results []CVResult) {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].MeanScore > results[order[b]].MeanScore
	})
	for pos, idx := range order {
		if pos > 0 && results[idx].MeanScore == results[order[pos-1]].MeanScore {
			results[idx].Rank = results[order[pos-1]].Rank
			continue
		}
		results[idx].Rank = pos + 1
	}
}

func (g *GridSearchCV) requireFitted(method string) error {
	if g.bestEstimator == nil {
		return errors.NewNotFittedError("GridSearchCV", method)
	}
	return nil
}

// BestParams returns the winning parameter setting, or nil before Fit.
func (g *GridSearchCV) BestParams() map[string]interface{} {
	if g.bestIndex < 0 {
		return nil
	}
	return g.results[g.bestIndex].Params
}

// BestScore returns the mean cross-validated score of BestParams.
func (g *GridSearchCV) BestScore() float64 {
	if g.bestIndex < 0 {
		return 0
	}
	return g.results[g.bestIndex].MeanScore
}

// BestEstimator returns the estimator refitted on the full data with BestParams.
func (g *GridSearchCV) BestEstimator() model.SearchableClassifier {
	return g.bestEstimator
}

// CVResults returns the per-candidate results in grid order.
func (g *GridSearchCV) CVResults() []CVResult {
	return g.results
}

// Predict predicts with the best estimator.
func (g *GridSearchCV) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := g.requireFitted("Predict"); err != nil {
		return nil, err
	}
	return g.bestEstimator.Predict(X)
}

// PredictProba returns the best estimator's class probabilities.
func (g *GridSearchCV) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := g.requireFitted("PredictProba"); err != nil {
		return nil, err
	}
	return g.bestEstimator.PredictProba(X)
}

// Score scores the best estimator on X and y.
func (g *GridSearchCV) Score(X, y mat.Matrix) (float64, error) {
	if err := g.requireFitted("Score"); err != nil {
		return 0, err
	}
	return g.bestEstimator.Score(X, y)
}
