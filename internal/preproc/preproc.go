// Package preproc has the contact map preprocessing utilities that run
// before pattern detection: bin detectability, diagonal statistics,
// detrending and contact subsampling. All functions treat their input as
// read-only and return new matrices.
package preproc

import (
	"errors"
	"math"
	"sort"

	"github.com/james-bowman/sparse"

	"github.com/Captaincapture/chromosight/internal/smat"
)

var (
	// ErrOversampling is returned when more contacts are requested than the
	// matrix contains. Requests are never clamped silently.
	ErrOversampling = errors.New("cannot sample more contacts than the matrix contains")

	// ErrAsymmetric is returned when a square symmetric matrix is expected
	// but the input is rectangular.
	ErrAsymmetric = errors.New("intrachromosomal matrix must be square")
)

// Median returns the median of xs. Returns 0 for an empty slice.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// MAD returns the median absolute deviation of xs.
func MAD(xs []float64) float64 {
	med := Median(xs)
	dev := make([]float64, len(xs))
	for i, x := range xs {
		dev[i] = math.Abs(x - med)
	}
	return Median(dev)
}

// DiagTrim drops every entry further than d bins above the main diagonal.
// Entries on or below the diagonal are left untouched.
func DiagTrim(m sparse.Sparser, d int) *sparse.CSR {
	return smat.Filter(m, func(i, j int, v float64) bool {
		return j-i <= d
	})
}

// diagonal returns the k-th superdiagonal of m as a dense slice, zeros
// included.
func diagonal(m sparse.Sparser, k int) []float64 {
	r, c := m.Dims()
	n := r
	if c-k < n {
		n = c - k
	}
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	m.DoNonZero(func(i, j int, v float64) {
		if j-i == k && i < n {
			out[i] = v
		}
	})
	return out
}

// Despeckle removes speckles (local outliers) from an upper-triangle matrix.
// A nonzero entry at distance k from the diagonal is an outlier when it
// exceeds median + th * MAD of its own diagonal; outliers are replaced by the
// diagonal median.
func Despeckle(m sparse.Sparser, th float64) *sparse.CSR {
	_, c := m.Dims()
	medians := make(map[int]float64)
	cutoffs := make(map[int]float64)
	for k := 0; k < c; k++ {
		diag := diagonal(m, k)
		if diag == nil {
			break
		}
		med := Median(diag)
		medians[k] = med
		cutoffs[k] = med + th*MAD(diag)
	}
	return smat.Map(m, func(i, j int, v float64) float64 {
		k := j - i
		if k < 0 {
			return v
		}
		if v > cutoffs[k] {
			return medians[k]
		}
		return v
	})
}

// DistanceLaw computes the mean contact value at each distance from the
// diagonal, over full diagonals (zeros included). With smooth, the law is
// made non-increasing by isotonic regression (pool adjacent violators), so
// noisy tails cannot make expected values go back up with distance.
func DistanceLaw(m sparse.Sparser, smooth bool) []float64 {
	r, c := m.Dims()
	n := r
	if c < n {
		n = c
	}
	law := make([]float64, n)
	for k := 0; k < n; k++ {
		diag := diagonal(m, k)
		sum := 0.0
		for _, v := range diag {
			sum += v
		}
		law[k] = sum / float64(len(diag))
	}
	if smooth {
		law = poolAdjacentViolators(law)
	}
	return law
}

// poolAdjacentViolators fits the best non-increasing sequence to xs.
func poolAdjacentViolators(xs []float64) []float64 {
	type block struct {
		sum float64
		n   int
	}
	var blocks []block
	for _, x := range xs {
		blocks = append(blocks, block{x, 1})
		// merge while the tail increases
		for len(blocks) > 1 {
			a, b := blocks[len(blocks)-2], blocks[len(blocks)-1]
			if a.sum/float64(a.n) >= b.sum/float64(b.n) {
				break
			}
			blocks = blocks[:len(blocks)-2]
			blocks = append(blocks, block{a.sum + b.sum, a.n + b.n})
		}
	}
	out := make([]float64, 0, len(xs))
	for _, b := range blocks {
		v := b.sum / float64(b.n)
		for i := 0; i < b.n; i++ {
			out = append(out, v)
		}
	}
	return out
}

// Detrend divides each entry of an upper-triangle matrix by the smoothed
// distance law value at its distance, removing the expected decay of
// contacts with genomic distance. Distances with a zero expectation are
// dropped.
func Detrend(m sparse.Sparser) *sparse.CSR {
	law := DistanceLaw(m, true)
	return smat.Map(m, func(i, j int, v float64) float64 {
		k := j - i
		if k < 0 || k >= len(law) || law[k] == 0 {
			return 0
		}
		return v / law[k]
	})
}

// SignalToNoiseThreshold returns the first distance from the diagonal at
// which the mean contact value drops below half the median nonzero value of
// the matrix. Diagonals beyond that distance are too noisy to scan.
func SignalToNoiseThreshold(m sparse.Sparser) int {
	floor := Median(smat.Data(m)) / 2
	r, c := m.Dims()
	n := r
	if c < n {
		n = c
	}
	for k := 0; k < n; k++ {
		diag := diagonal(m, k)
		sum := 0.0
		for _, v := range diag {
			sum += v
		}
		if sum/float64(len(diag)) < floor {
			return k
		}
	}
	return n
}
