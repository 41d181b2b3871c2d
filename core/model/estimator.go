package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はスコアを計算できるモデルのインターフェース
type Scorer interface {
	// Score は分類器では平均正解率を返す
	Score(X, y mat.Matrix) (float64, error)
}

// Estimator は学習と予測の両方を備えたモデル
type Estimator interface {
	Fitter
	Predictor
}

// Classifier は確率推定を備えた二値/多値分類器のインターフェース
type Classifier interface {
	Estimator
	Scorer

	// PredictProba は各クラスの確率を返す（列の順序は Classes() と一致）
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes は学習時に観測したクラスラベルを昇順で返す
	Classes() []float64
}

// LinearClassifier は線形決定関数を持つ分類器
type LinearClassifier interface {
	Classifier

	// DecisionFunction は coef·x + intercept を返す
	DecisionFunction(X mat.Matrix) (mat.Matrix, error)
}
