// Package smat holds the sparse matrix helpers shared by the preprocessing
// and detection packages. Everything here works on the nonzero entries only
// and rebuilds matrices from triplets, so cost stays proportional to nnz.
package smat

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// FromTriplets builds a CSR matrix of shape r x c from parallel triplet
// slices. Duplicate coordinates are summed.
func FromTriplets(r, c int, rows, cols []int, data []float64) *sparse.CSR {
	return sparse.NewCOO(r, c, rows, cols, data).ToCSR()
}

// Triplets returns the nonzero entries of m as parallel slices, in the
// iteration order of the underlying format (row-major for CSR).
func Triplets(m sparse.Sparser) (rows, cols []int, data []float64) {
	rows = make([]int, 0, m.NNZ())
	cols = make([]int, 0, m.NNZ())
	data = make([]float64, 0, m.NNZ())
	m.DoNonZero(func(i, j int, v float64) {
		rows = append(rows, i)
		cols = append(cols, j)
		data = append(data, v)
	})
	return rows, cols, data
}

// Data returns a copy of the nonzero values of m.
func Data(m sparse.Sparser) []float64 {
	out := make([]float64, 0, m.NNZ())
	m.DoNonZero(func(i, j int, v float64) {
		out = append(out, v)
	})
	return out
}

// Filter rebuilds m keeping only the nonzero entries for which keep returns
// true. The output has the same shape as m.
func Filter(m sparse.Sparser, keep func(i, j int, v float64) bool) *sparse.CSR {
	r, c := m.Dims()
	var rows, cols []int
	var data []float64
	m.DoNonZero(func(i, j int, v float64) {
		if keep(i, j, v) {
			rows = append(rows, i)
			cols = append(cols, j)
			data = append(data, v)
		}
	})
	return FromTriplets(r, c, rows, cols, data)
}

// Map rebuilds m applying f to every nonzero entry. Entries mapped to zero
// are dropped from the result.
func Map(m sparse.Sparser, f func(i, j int, v float64) float64) *sparse.CSR {
	r, c := m.Dims()
	var rows, cols []int
	var data []float64
	m.DoNonZero(func(i, j int, v float64) {
		nv := f(i, j, v)
		if nv == 0 {
			return
		}
		rows = append(rows, i)
		cols = append(cols, j)
		data = append(data, nv)
	})
	return FromTriplets(r, c, rows, cols, data)
}

// Triu restricts m to its upper triangle (col >= row).
func Triu(m sparse.Sparser) *sparse.CSR {
	return Filter(m, func(i, j int, v float64) bool { return j >= i })
}

// MirrorDiags copies diagonals 1..n-1 from the upper triangle onto the lower
// triangle. Entries further than n-1 below the diagonal are not created. Used
// to symmetrize an upper-triangle map just enough for a kernel of height n to
// slide across the diagonal.
func MirrorDiags(m sparse.Sparser, n int) *sparse.CSR {
	r, c := m.Dims()
	var rows, cols []int
	var data []float64
	m.DoNonZero(func(i, j int, v float64) {
		rows = append(rows, i)
		cols = append(cols, j)
		data = append(data, v)
		if d := j - i; d >= 1 && d < n {
			rows = append(rows, j)
			cols = append(cols, i)
			data = append(data, v)
		}
	})
	return FromTriplets(r, c, rows, cols, data)
}

// Band builds the rectangular banded operator used by the sparse
// convolution: a rows x cols matrix with diag[k] on the k-th superdiagonal
// when upper is true (entries at (i, i+k)), or on the k-th subdiagonal when
// upper is false (entries at (i+k, i)).
func Band(rows, cols int, diag []float64, upper bool) *sparse.CSR {
	var ri, ci []int
	var data []float64
	for k, v := range diag {
		if v == 0 {
			continue
		}
		if upper {
			for i := 0; i+k < cols && i < rows; i++ {
				ri = append(ri, i)
				ci = append(ci, i+k)
				data = append(data, v)
			}
		} else {
			for i := 0; i+k < rows && i < cols; i++ {
				ri = append(ri, i+k)
				ci = append(ci, i)
				data = append(data, v)
			}
		}
	}
	return FromTriplets(rows, cols, ri, ci, data)
}

// Add returns the elementwise sum of two sparse matrices.
func Add(a, b sparse.Sparser) *sparse.CSR {
	sum := &sparse.CSR{}
	sum.Add(a, b)
	return sum
}

// Mul returns the matrix product a x b, computed sparsely.
func Mul(a, b mat.Matrix) *sparse.CSR {
	prod := &sparse.CSR{}
	prod.Mul(a, b)
	return prod
}

// Shift rebuilds m with every coordinate offset by (dr, dc) inside a matrix
// of shape r x c. Entries shifted out of bounds are dropped.
func Shift(m sparse.Sparser, dr, dc, r, c int) *sparse.CSR {
	var rows, cols []int
	var data []float64
	m.DoNonZero(func(i, j int, v float64) {
		ni, nj := i+dr, j+dc
		if ni < 0 || nj < 0 || ni >= r || nj >= c {
			return
		}
		rows = append(rows, ni)
		cols = append(cols, nj)
		data = append(data, v)
	})
	return FromTriplets(r, c, rows, cols, data)
}
