package glmnet_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/glmnet/datasets"
	"github.com/YuminosukeSato/glmnet/metrics"
	"github.com/YuminosukeSato/glmnet/model_selection"
	"github.com/YuminosukeSato/glmnet/pipeline"
	"github.com/YuminosukeSato/glmnet/preprocessing"
	"github.com/YuminosukeSato/glmnet/sklearn/glmnet"
	"github.com/YuminosukeSato/glmnet/sklearn/glmnet/binding"
)

const nFeatures = 50

type split struct {
	XTrain, XTest *mat.Dense
	yTrain, yTest *mat.VecDense
}

// syntheticSplit draws 1000 samples with 25 informative and 25 noise
// features plus a little label noise, and holds out 20%.
func syntheticSplit(t *testing.T) split {
	t.Helper()
	X, y, err := datasets.MakeClassification(1000, nFeatures,
		datasets.WithInformative(25),
		datasets.WithFlipY(0.03),
		datasets.WithRandomState(42),
	)
	if err != nil {
		t.Fatalf("MakeClassification failed: %v", err)
	}
	XTrain, XTest, yTrain, yTest, err := datasets.TrainTestSplit(X, y, 0.2, 42)
	if err != nil {
		t.Fatalf("TrainTestSplit failed: %v", err)
	}
	return split{XTrain, XTest, yTrain, yTest}
}

func countZeros(m *mat.Dense) int {
	n := 0
	_, c := m.Dims()
	for j := 0; j < c; j++ {
		if m.At(0, j) == 0 {
			n++
		}
	}
	return n
}

// fitAndEvaluate fits clf on the training half and checks the held-out
// accuracy, ROC AUC and coefficient shape. It returns the number of exact
// zero coefficients.
func fitAndEvaluate(t *testing.T, s split, clf *glmnet.LogisticNet) int {
	t.Helper()
	if err := clf.Fit(s.XTrain, s.yTrain); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	pred, err := clf.Predict(s.XTest)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	acc, err := metrics.Accuracy(s.yTest, pred.(*mat.VecDense))
	if err != nil {
		t.Fatalf("Accuracy failed: %v", err)
	}
	if acc <= 0.7 {
		t.Errorf("test accuracy %.3f, want > 0.7", acc)
	}

	proba, err := clf.PredictProba(s.XTest)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}
	positive := mat.VecDenseCopyOf(proba.(*mat.Dense).ColView(1))
	auc, err := metrics.AUC(s.yTest, positive)
	if err != nil {
		t.Fatalf("AUC failed: %v", err)
	}
	if auc <= 0.7 {
		t.Errorf("test ROC AUC %.3f, want > 0.7", auc)
	}

	coef := clf.Coef()
	if r, c := coef.Dims(); r != 1 || c != nFeatures {
		t.Fatalf("Coef dims = (%d, %d), want (1, %d)", r, c, nFeatures)
	}
	if len(clf.Intercept()) != 1 {
		t.Errorf("Intercept length = %d, want 1", len(clf.Intercept()))
	}
	return countZeros(coef)
}

// The default mock solves at C=1e5, which is nearly unpenalized: neither
// penalty zeroes out a coefficient there, so only predictive quality and
// the l2 coefficient count are checked.
func TestEndToEndPenalties(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end fit in short mode")
	}
	s := syntheticSplit(t)

	for _, penalty := range []string{glmnet.PenaltyL1, glmnet.PenaltyL2} {
		t.Run(penalty, func(t *testing.T) {
			zeros := fitAndEvaluate(t, s, glmnet.NewLogisticNet(glmnet.WithPenalty(penalty)))
			if penalty == glmnet.PenaltyL2 && nFeatures-zeros < 45 {
				t.Errorf("l2 kept only %d non-zero coefficients", nFeatures-zeros)
			}
		})
	}
}

// A strongly penalized mock point (C=0.05) drives the weakest of the 25
// noise features to exactly zero under l1, while l2 only shrinks them.
func TestEndToEndL1Sparsity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end fit in short mode")
	}
	s := syntheticSplit(t)
	strong := binding.NewMockBinding(binding.WithMockC(0.05))

	zeros := make(map[string]int)
	for _, penalty := range []string{glmnet.PenaltyL1, glmnet.PenaltyL2} {
		t.Run(penalty, func(t *testing.T) {
			zeros[penalty] = fitAndEvaluate(t, s, glmnet.NewLogisticNet(
				glmnet.WithPenalty(penalty),
				glmnet.WithBinding(strong),
			))
		})
	}

	if zeros[glmnet.PenaltyL1] < 1 {
		t.Errorf("l1 produced no exact zero coefficients")
	}
	if zeros[glmnet.PenaltyL2] >= zeros[glmnet.PenaltyL1] {
		t.Errorf("l2 has %d exact zeros, want fewer than l1's %d", zeros[glmnet.PenaltyL2], zeros[glmnet.PenaltyL1])
	}
	if nonZero := nFeatures - zeros[glmnet.PenaltyL2]; nonZero < 45 {
		t.Errorf("l2 kept only %d non-zero coefficients", nonZero)
	}
}

func TestEndToEndAlphaOverridesPenalty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end fit in short mode")
	}
	X, y, err := datasets.MakeClassification(300, 10,
		datasets.WithInformative(5),
		datasets.WithRandomState(3),
	)
	if err != nil {
		t.Fatal(err)
	}

	fitCoef := func(opts ...glmnet.Option) *mat.Dense {
		t.Helper()
		clf := glmnet.NewLogisticRegression(opts...)
		if err := clf.Fit(X, y); err != nil {
			t.Fatalf("Fit failed: %v", err)
		}
		return clf.Coef()
	}

	tests := []struct {
		name     string
		override []glmnet.Option
		same     []glmnet.Option
	}{
		{
			name:     "alpha=1 means lasso",
			override: []glmnet.Option{glmnet.WithPenalty(glmnet.PenaltyL2), glmnet.WithAlpha(1.0)},
			same:     []glmnet.Option{glmnet.WithPenalty(glmnet.PenaltyL1)},
		},
		{
			name:     "alpha=0 means ridge",
			override: []glmnet.Option{glmnet.WithPenalty(glmnet.PenaltyL1), glmnet.WithAlpha(0.0)},
			same:     []glmnet.Option{glmnet.WithPenalty(glmnet.PenaltyL2)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, want := fitCoef(tt.override...), fitCoef(tt.same...)
			if !mat.Equal(got, want) {
				t.Errorf("coefficients differ:\n got %v\nwant %v", mat.Formatted(got), mat.Formatted(want))
			}
		})
	}
}

func TestEndToEndPipelineGridSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping grid search in short mode")
	}
	X, y, err := datasets.MakeClassification(240, 8,
		datasets.WithInformative(4),
		datasets.WithClassSep(2),
		datasets.WithRandomState(11),
	)
	if err != nil {
		t.Fatal(err)
	}
	XTrain, XTest, yTrain, yTest, err := datasets.TrainTestSplit(X, y, 0.25, 11)
	if err != nil {
		t.Fatal(err)
	}

	pipe, err := pipeline.New(
		pipeline.Step{Name: "scaler", Estimator: preprocessing.NewStandardScalerDefault()},
		pipeline.Step{Name: "logistic_net", Estimator: glmnet.NewLogisticNet()},
	)
	if err != nil {
		t.Fatalf("pipeline.New failed: %v", err)
	}

	gs := model_selection.NewGridSearchCV(pipe, model_selection.ParamGrid{
		"logistic_net__C":       {0.1, 1.0, 10.0},
		"logistic_net__penalty": {glmnet.PenaltyL1, glmnet.PenaltyL2},
	}, model_selection.WithCV(3), model_selection.WithShuffle(0))

	if err := gs.Fit(XTrain, yTrain); err != nil {
		t.Fatalf("GridSearchCV.Fit failed: %v", err)
	}
	if n := len(gs.CVResults()); n != 6 {
		t.Errorf("got %d candidates, want 6", n)
	}
	if gs.BestScore() <= 0.7 {
		t.Errorf("best cross-validated accuracy %.3f, want > 0.7", gs.BestScore())
	}

	score, err := gs.Score(XTest, yTest)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score <= 0.7 {
		t.Errorf("held-out accuracy %.3f, want > 0.7", score)
	}

	best := gs.BestEstimator().(*pipeline.Pipeline)
	clf := best.Step("logistic_net").(*glmnet.LogisticNet)
	if clf.Params().Penalty != gs.BestParams()["logistic_net__penalty"] {
		t.Errorf("refitted penalty %q does not match best params %v", clf.Params().Penalty, gs.BestParams())
	}
	if pipe.Step("logistic_net").(*glmnet.LogisticNet).IsFitted() {
		t.Error("the template pipeline must stay unfitted")
	}
}
