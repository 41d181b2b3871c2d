package model

// SKLearnCompatible はscikit-learn互換のパラメータ操作インターフェース
type SKLearnCompatible interface {
	// GetParams はモデルのハイパーパラメータを取得
	GetParams(deep bool) map[string]interface{}

	// SetParams はモデルのハイパーパラメータを設定
	SetParams(params map[string]interface{}) error

	// Clone はモデルの新しい未学習インスタンスを同じパラメータで作成
	Clone() SKLearnCompatible
}

// SearchableClassifier はグリッドサーチで扱える分類器
type SearchableClassifier interface {
	Classifier
	SKLearnCompatible
}

// Tags は推定器の能力を表すメタデータ（scikit-learnの _more_tags 相当）
type Tags struct {
	// BinaryOnly は2クラス分類のみ対応していることを示す
	BinaryOnly bool
	// RequiresPositiveX は入力が非負である必要があることを示す
	RequiresPositiveX bool
	// AllowSparse は疎行列入力を受け付けることを示す
	AllowSparse bool
}

// Tagged はタグを公開する推定器
type Tagged interface {
	Tags() Tags
}
