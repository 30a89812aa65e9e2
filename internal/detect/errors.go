// Package detect implements the pattern matching engine: sparse kernel
// correlation, focus labeling, candidate picking, pattern validation and the
// iterative pileup loop tying them together.
package detect

import "errors"

var (
	// ErrDenseSignal is returned when the signal matrix is not sparse. The
	// engine never densifies genome-scale matrices.
	ErrDenseSignal = errors.New("cannot handle signal in dense format")

	// ErrSparseKernel is returned when the kernel is a sparse matrix.
	// Kernels are small and must be dense.
	ErrSparseKernel = errors.New("cannot handle kernel in sparse format")

	// ErrKernelTooBig is returned when the kernel does not fit inside the
	// signal matrix.
	ErrKernelTooBig = errors.New("cannot have kernel bigger than signal")

	// ErrZeroKernel is returned when a kernel has no mass to correlate
	// against.
	ErrZeroKernel = errors.New("kernel values sum to zero")

	// ErrUnknownPattern is returned for a pattern name with no preset.
	ErrUnknownPattern = errors.New("unknown pattern type")
)
