package preproc

import (
	"math"

	"github.com/james-bowman/sparse"

	"github.com/Captaincapture/chromosight/internal/smat"
)

// Normalize balances a symmetric-upper matrix by iterative correction: each
// round divides every entry by the coverage of its two bins, scaled to the
// median coverage, so detectable bins converge toward equal totals. Bins
// outside goodBins keep a unit correction factor and are left as they are;
// a nil goodBins treats every bin as detectable.
func Normalize(m sparse.Sparser, goodBins []int, iterations int) *sparse.CSR {
	r, _ := m.Dims()
	good := make([]bool, r)
	if goodBins == nil {
		for i := range good {
			good[i] = true
		}
	} else {
		for _, b := range goodBins {
			good[b] = true
		}
	}

	w := smat.Map(m, func(i, j int, v float64) float64 { return v })
	for it := 0; it < iterations; it++ {
		sums := SumMatBins(w)
		var covered []float64
		for i, s := range sums {
			if good[i] && s > 0 {
				covered = append(covered, s)
			}
		}
		med := Median(covered)
		if med == 0 {
			break
		}

		// square-root damping keeps the iteration from oscillating around
		// the balanced fixed point
		factors := make([]float64, r)
		for i := range factors {
			factors[i] = 1
			if good[i] && sums[i] > 0 {
				factors[i] = math.Sqrt(sums[i] / med)
			}
		}
		w = smat.Map(w, func(i, j int, v float64) float64 {
			return v / (factors[i] * factors[j])
		})
	}
	return w
}
