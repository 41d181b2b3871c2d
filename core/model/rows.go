package model

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Rows は特徴量行列への行単位の読み取り専用アクセスを提供する。
// *mat.Dense はコピーせずに参照し、mat.RowNonZeroDoer を実装する疎行列は
// 非ゼロ要素だけを走査する。それ以外の Matrix は一度だけ密行列にコピーする。
type Rows struct {
	dense  *mat.Dense
	sparse mat.RowNonZeroDoer
	rows   int
	cols   int
}

// NewRows wraps X for row-wise access. X is never modified.
func NewRows(X mat.Matrix) *Rows {
	r, c := X.Dims()
	rw := &Rows{rows: r, cols: c}
	switch m := X.(type) {
	case *mat.Dense:
		rw.dense = m
	case mat.RowNonZeroDoer:
		rw.sparse = m
	default:
		if r > 0 && c > 0 {
			rw.dense = mat.DenseCopyOf(X)
		}
	}
	return rw
}

// Dims returns the shape of the wrapped matrix.
func (r *Rows) Dims() (int, int) { return r.rows, r.cols }

// Sparse reports whether rows are iterated by non-zeros.
func (r *Rows) Sparse() bool { return r.sparse != nil }

// Dot returns x_i · w.
func (r *Rows) Dot(i int, w []float64) float64 {
	if r.sparse != nil {
		var s float64
		r.sparse.DoRowNonZero(i, func(_, j int, v float64) {
			s += v * w[j]
		})
		return s
	}
	if r.dense == nil {
		return 0
	}
	return floats.Dot(r.dense.RawRowView(i), w)
}

// AddScaledTo computes dst += alpha * x_i.
func (r *Rows) AddScaledTo(i int, alpha float64, dst []float64) {
	if r.sparse != nil {
		r.sparse.DoRowNonZero(i, func(_, j int, v float64) {
			dst[j] += alpha * v
		})
		return
	}
	if r.dense == nil {
		return
	}
	floats.AddScaled(dst, alpha, r.dense.RawRowView(i))
}

// SquaredNorm returns ||x_i||².
func (r *Rows) SquaredNorm(i int) float64 {
	if r.sparse != nil {
		var s float64
		r.sparse.DoRowNonZero(i, func(_, _ int, v float64) {
			s += v * v
		})
		return s
	}
	if r.dense == nil {
		return 0
	}
	row := r.dense.RawRowView(i)
	return floats.Dot(row, row)
}

// UniqueLabels は列ベクトル y に含まれるラベルを昇順で返す
func UniqueLabels(y mat.Matrix) []float64 {
	n, _ := y.Dims()
	seen := make(map[float64]struct{})
	labels := make([]float64, 0, 2)
	for i := 0; i < n; i++ {
		v := y.At(i, 0)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		labels = append(labels, v)
	}
	sort.Float64s(labels)
	return labels
}
