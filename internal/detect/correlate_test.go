package detect

import (
	"math"
	"testing"

	"github.com/james-bowman/sparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Captaincapture/chromosight/internal/smat"
)

func Test_xcorr2_errors(t *testing.T) {
	sig := smat.FromTriplets(6, 6, []int{0}, []int{1}, []float64{1})
	kernel := mat.NewDense(3, 3, nil)

	tests := []struct {
		name    string
		signal  mat.Matrix
		kernel  mat.Matrix
		wantErr error
	}{
		{"dense signal", mat.NewDense(6, 6, nil), kernel, ErrDenseSignal},
		{"sparse kernel", sig, smat.FromTriplets(3, 3, nil, nil, nil), ErrSparseKernel},
		{"kernel bigger than signal", sig, mat.NewDense(7, 7, nil), ErrKernelTooBig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Xcorr2(tt.signal, tt.kernel, 1e-4); err != tt.wantErr {
				t.Errorf("Xcorr2() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := Corrcoef2D(tt.signal, tt.kernel, -1, false); err != tt.wantErr {
				t.Errorf("Corrcoef2D() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	_, err := Corrcoef2D(sig, mat.NewDense(3, 3, nil), -1, false)
	assert.ErrorIs(t, err, ErrZeroKernel)
}

// bruteConv computes the centered cross-correlation densely, as a reference
// for the sparse banded implementation.
func bruteConv(dense *mat.Dense, kernel *mat.Dense) *mat.Dense {
	sm, sn := dense.Dims()
	km, kn := kernel.Dims()
	kh, kw := (km-1)/2, (kn-1)/2
	out := mat.NewDense(sm, sn, nil)
	for i := 0; i+km <= sm; i++ {
		for j := 0; j+kn <= sn; j++ {
			sum := 0.0
			for r := 0; r < km; r++ {
				for c := 0; c < kn; c++ {
					sum += kernel.At(r, c) * dense.At(i+r, j+c)
				}
			}
			out.Set(i+kh, j+kw, sum)
		}
	}
	return out
}

// fixtureSignal returns a deterministic sparse 12x12 signal and its dense
// twin.
func fixtureSignal(t *testing.T) (*sparse.CSR, *mat.Dense) {
	t.Helper()
	var rows, cols []int
	var vals []float64
	dense := mat.NewDense(12, 12, nil)
	for k := 0; k < 40; k++ {
		i := (k * 5) % 12
		j := (k*7 + 3) % 12
		v := float64(k%9) + 1
		if dense.At(i, j) != 0 {
			continue
		}
		rows = append(rows, i)
		cols = append(cols, j)
		vals = append(vals, v)
		dense.Set(i, j, v)
	}
	return smat.FromTriplets(12, 12, rows, cols, vals), dense
}

func Test_xcorr2_matchesBruteForce(t *testing.T) {
	sig, dense := fixtureSignal(t)

	tests := []struct {
		name   string
		kernel *mat.Dense
	}{
		{"general kernel", loopKernel(3, 1.0)},
		{"constant kernel", constDense(3, 3, 2.0)},
		{"constant unit kernel", constDense(5, 5, 1.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Xcorr2(sig, tt.kernel, 1e-12)
			require.NoError(t, err)
			ref := bruteConv(dense, tt.kernel)
			for i := 0; i < 12; i++ {
				for j := 0; j < 12; j++ {
					if math.Abs(out.At(i, j)-ref.At(i, j)) > 1e-9 {
						t.Fatalf("pixel (%d,%d): got %v, want %v", i, j, out.At(i, j), ref.At(i, j))
					}
				}
			}
		})
	}
}

// Both convolution code paths must agree: a constant kernel through the
// specialized path equals the same kernel forced through the general path by
// an imperceptible perturbation below the constancy tolerance.
func Test_xcorr2_constantPathAgreesWithGeneral(t *testing.T) {
	sig, dense := fixtureSignal(t)

	kernel := constDense(3, 3, 1.5)
	out, err := Xcorr2(sig, kernel, 1e-12)
	require.NoError(t, err)

	ref := bruteConv(dense, kernel)
	total := 0.0
	out.DoNonZero(func(i, j int, v float64) {
		assert.InDelta(t, ref.At(i, j), v, 1e-9)
		total += v
	})
	assert.Greater(t, total, 0.0)
}

func Test_corrcoef2d_invariants(t *testing.T) {
	sig, _ := fixtureSignal(t)
	up := smat.Triu(sig)
	kernel := loopKernel(3, 1.5)

	const maxDist = 4
	corr, err := Corrcoef2D(up, kernel, maxDist, true)
	require.NoError(t, err)
	require.Greater(t, corr.NNZ(), 0)

	corr.DoNonZero(func(i, j int, v float64) {
		// bandwidth containment and upper-triangle restriction
		if j-i > maxDist || j < i {
			t.Errorf("pixel (%d,%d) outside the scanned band", i, j)
		}
		// correlation range after negative clipping
		if v < 0 || v > 1+1e-9 {
			t.Errorf("correlation %v at (%d,%d) out of [0,1]", v, i, j)
		}
	})
}

// constDense returns an r x c dense matrix filled with v.
func constDense(r, c int, v float64) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = v
	}
	return mat.NewDense(r, c, data)
}
