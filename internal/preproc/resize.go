package preproc

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ResizeKernel rescales a square odd kernel by factor (kernel resolution /
// signal resolution) using nearest neighbour sampling. The output dimension
// is forced odd so the kernel keeps a center pixel, and clamped to
// [minSize, maxSize].
func ResizeKernel(kernel *mat.Dense, factor float64, minSize, maxSize int) *mat.Dense {
	m, _ := kernel.Dims()

	dim := int(float64(m) * factor)
	if dim%2 == 0 {
		dim--
	}
	if dim > maxSize {
		dim = maxSize
	}
	if dim < minSize {
		dim = minSize
	}

	out := mat.NewDense(dim, dim, nil)
	scale := 0.0
	if dim > 1 {
		scale = float64(m-1) / float64(dim-1)
	}
	for i := 0; i < dim; i++ {
		si := int(math.Round(float64(i) * scale))
		for j := 0; j < dim; j++ {
			sj := int(math.Round(float64(j) * scale))
			out.Set(i, j, kernel.At(si, sj))
		}
	}
	return out
}
