package preproc

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/stat"

	"github.com/Captaincapture/chromosight/internal/smat"
)

// SumMatBins returns the total contact count per bin of a symmetric full
// matrix: row sums plus column sums minus the diagonal, so diagonal entries
// are not counted twice.
func SumMatBins(m sparse.Sparser) []float64 {
	r, _ := m.Dims()
	sums := make([]float64, r)
	m.DoNonZero(func(i, j int, v float64) {
		sums[i] += v
		if i != j {
			sums[j] += v
		}
	})
	return sums
}

// DetectableBins flags bins with enough coverage to be trusted in
// statistics. A bin is detectable when its total contact count is nonzero
// and no further than nMads median absolute deviations below the median bin
// coverage. With inter false the matrix must be square and symmetric-upper;
// the two returned sets are then identical. With inter true rows and columns
// are assessed independently.
func DetectableBins(m sparse.Sparser, inter bool, nMads float64) (rows, cols []int, err error) {
	r, c := m.Dims()
	if !inter {
		if r != c {
			return nil, nil, ErrAsymmetric
		}
		sums := SumMatBins(m)
		good := goodBins(sums, nMads)
		return good, good, nil
	}

	rowSums := make([]float64, r)
	colSums := make([]float64, c)
	m.DoNonZero(func(i, j int, v float64) {
		rowSums[i] += v
		colSums[j] += v
	})
	return goodBins(rowSums, nMads), goodBins(colSums, nMads), nil
}

// goodBins returns the indices whose coverage is nonzero and at least
// median - nMads * MAD. Only the lower tail is cut: unusually rich bins are
// real signal, not artifacts.
func goodBins(sums []float64, nMads float64) []int {
	med := Median(sums)
	mad := MAD(sums)
	cutoff := med - nMads*mad
	var good []int
	for i, s := range sums {
		if s == 0 {
			continue
		}
		if s >= cutoff {
			good = append(good, i)
		}
	}
	return good
}

// Ztransform standardizes the nonzero values of m to mean 0 and standard
// deviation 1.
func Ztransform(m sparse.Sparser) *sparse.CSR {
	data := smat.Data(m)
	mean, std := stat.MeanStdDev(data, nil)
	if std == 0 {
		std = 1
	}
	return smat.Map(m, func(i, j int, v float64) float64 {
		return (v - mean) / std
	})
}
