package datasets

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CSR is a compressed sparse row matrix. It implements mat.Matrix and
// mat.RowNonZeroDoer, so estimators iterate only its stored entries.
type CSR struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float64
}

// NewCSR copies the non-zero entries of m into a CSR matrix.
func NewCSR(m mat.Matrix) *CSR {
	r, c := m.Dims()
	s := &CSR{rows: r, cols: c, indptr: make([]int, r+1)}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v != 0 {
				s.indices = append(s.indices, j)
				s.data = append(s.data, v)
			}
		}
		s.indptr[i+1] = len(s.data)
	}
	return s
}

// Dims returns the matrix shape.
func (s *CSR) Dims() (int, int) { return s.rows, s.cols }

// At returns the element at row i, column j.
func (s *CSR) At(i, j int) float64 {
	if i < 0 || i >= s.rows || j < 0 || j >= s.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	lo, hi := s.indptr[i], s.indptr[i+1]
	k := lo + sort.SearchInts(s.indices[lo:hi], j)
	if k < hi && s.indices[k] == j {
		return s.data[k]
	}
	return 0
}

// T returns the implicit transpose.
func (s *CSR) T() mat.Matrix { return mat.Transpose{Matrix: s} }

// DoRowNonZero calls fn for each stored entry of row i in column order.
func (s *CSR) DoRowNonZero(i int, fn func(i, j int, v float64)) {
	for k := s.indptr[i]; k < s.indptr[i+1]; k++ {
		fn(i, s.indices[k], s.data[k])
	}
}

// NNZ returns the number of stored entries.
func (s *CSR) NNZ() int { return len(s.data) }
