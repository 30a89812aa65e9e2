package detect

import (
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/Captaincapture/chromosight/internal/preproc"
	"github.com/Captaincapture/chromosight/internal/smat"
)

// xcorrThreshold is the absolute value below which convolution scores are
// zeroed to bound sparsity growth.
const xcorrThreshold = 1e-4

// checkInputs enforces the numerical contract of the correlator: sparse
// signal, dense kernel, kernel no bigger than signal.
func checkInputs(signal, kernel mat.Matrix) (sig sparse.Sparser, err error) {
	sig, ok := signal.(sparse.Sparser)
	if !ok {
		return nil, ErrDenseSignal
	}
	if _, sparseKernel := kernel.(sparse.Sparser); sparseKernel {
		return nil, ErrSparseKernel
	}
	sm, sn := signal.Dims()
	km, kn := kernel.Dims()
	if km > sm || kn > sn {
		return nil, ErrKernelTooBig
	}
	return sig, nil
}

// isConstant reports whether every kernel value is (nearly) equal to the
// first one.
func isConstant(kernel mat.Matrix) bool {
	km, kn := kernel.Dims()
	ref := kernel.At(0, 0)
	for i := 0; i < km; i++ {
		for j := 0; j < kn; j++ {
			v := kernel.At(i, j)
			if math.Abs(v-ref) > 1e-8*math.Max(math.Abs(v), math.Abs(ref)) {
				return false
			}
		}
	}
	return true
}

// Xcorr2 computes the raw cross-correlation of a sparse signal with a dense
// kernel, as a sparse matrix of the same shape as the signal. The product is
// built from banded sparse operators so cost stays proportional to the
// signal's nonzero count times the kernel area; the dense product is never
// materialized. Scores below threshold are dropped.
func Xcorr2(signal, kernel mat.Matrix, threshold float64) (*sparse.CSR, error) {
	sig, err := checkInputs(signal, kernel)
	if err != nil {
		return nil, err
	}

	sm, sn := signal.Dims()
	km, kn := kernel.Dims()
	kh := (km - 1) / 2
	kw := (kn - 1) / 2

	var out *sparse.CSR
	if isConstant(kernel) {
		// one banded product covers all kernel columns at once
		left := smat.Band(sm-km+1, sm, ones(km), true)
		right := smat.Band(sn, sn-kn+1, ones(kn), false)
		out = smat.Mul(smat.Mul(left, sig), right)
		c := kernel.At(0, 0)
		if c != 1 {
			out = smat.Map(out, func(i, j int, v float64) float64 { return v * c })
		}
	} else {
		// accumulate one shifted banded product per kernel column
		for kj := 0; kj < kn; kj++ {
			col := make([]float64, km)
			for r := 0; r < km; r++ {
				col[r] = kernel.At(r, kj)
			}
			left := smat.Band(sm-km+1, sm, col, true)
			shift := make([]float64, kj+1)
			shift[kj] = 1
			right := smat.Band(sn, sn-kn+1, shift, false)
			term := smat.Mul(smat.Mul(left, sig), right)
			if out == nil {
				out = term
			} else {
				out = smat.Add(out, term)
			}
		}
	}

	out = smat.Filter(out, func(i, j int, v float64) bool {
		return v >= threshold
	})

	// re-index the valid region onto the signal frame, leaving empty margins
	return smat.Shift(out, kh, kw, sm, sn), nil
}

// Corrcoef2D computes the Pearson-like correlation between the signal and a
// sliding kernel, restricted to maxDist bins from the diagonal (pass a
// negative maxDist to scan everything) and to the upper triangle. With
// symUpper, diagonals 1..kernel_height-1 are first mirrored onto the lower
// triangle of a working copy so windows crossing the main diagonal see the
// contributions the upper-triangle storage omits. Coefficients are clipped
// to zero from below; positions where the normalization is undefined stay
// zero.
func Corrcoef2D(signal, kernel mat.Matrix, maxDist int, symUpper bool) (*sparse.CSR, error) {
	sig, err := checkInputs(signal, kernel)
	if err != nil {
		return nil, err
	}

	km, kn := kernel.Dims()
	l1 := 0.0
	sumK2 := 0.0
	for i := 0; i < km; i++ {
		for j := 0; j < kn; j++ {
			v := kernel.At(i, j)
			l1 += math.Abs(v)
			sumK2 += v * v
		}
	}
	if l1 == 0 {
		return nil, ErrZeroKernel
	}

	work := sparse.Sparser(sig)
	if symUpper {
		work = smat.MirrorDiags(sig, km)
	}

	// numerator: signal correlated with the L1-normalized kernel
	normKernel := mat.NewDense(km, kn, nil)
	normKernel.Scale(1/l1, denseOf(kernel))
	conv, err := Xcorr2(work, normKernel, xcorrThreshold)
	if err != nil {
		return nil, err
	}

	// denominator: local signal energy under a constant window
	sig2 := smat.Map(work, func(i, j int, v float64) float64 { return v * v })
	onesKernel := mat.NewDense(km, kn, ones(km*kn))
	energy, err := Xcorr2(sig2, onesKernel, xcorrThreshold)
	if err != nil {
		return nil, err
	}

	corr := smat.Map(conv, func(i, j int, v float64) float64 {
		d := energy.At(i, j) * sumK2
		if d <= 0 {
			return 0
		}
		r := v / math.Sqrt(d)
		if math.IsNaN(r) || r < 0 {
			return 0
		}
		return r
	})

	if maxDist >= 0 {
		corr = preproc.DiagTrim(corr, maxDist)
	}
	return smat.Triu(corr), nil
}

// ones returns a slice of n ones.
func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// denseOf returns m as a *mat.Dense without copying when possible.
func denseOf(m mat.Matrix) *mat.Dense {
	if d, ok := m.(*mat.Dense); ok {
		return d
	}
	return mat.DenseCopyOf(m)
}
