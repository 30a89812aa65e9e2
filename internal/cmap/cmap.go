// Package cmap holds the contact map data model and the text readers for
// maps and kernels. A contact map is a sparse nonnegative matrix in
// symmetric-upper convention for intrachromosomal data: only entries on or
// above the diagonal are stored, the lower triangle is mirrored on demand by
// consumers that need it.
package cmap

import (
	"github.com/james-bowman/sparse"

	"github.com/Captaincapture/chromosight/internal/preproc"
)

// ContactMap is one chromosome or region of a Hi-C experiment. It is built
// once by the loader and read-only during detection.
type ContactMap struct {
	// M is the sparse contact matrix, upper triangle only for
	// intrachromosomal maps
	M *sparse.CSR

	// MaxDist is the scan bandwidth: pixels further than this many bins from
	// the diagonal are never scanned
	MaxDist int

	// Inter marks an interchromosomal (rectangular) map; no symmetry is
	// assumed and MaxDist does not apply
	Inter bool

	// DetectableRows and DetectableCols are the bin indices with enough
	// coverage to be trusted in statistics
	DetectableRows []int
	DetectableCols []int
}

// New builds a contact map from a sparse matrix, computing its detectable
// bins. nMads is the coverage tolerance passed to preproc.DetectableBins.
func New(m *sparse.CSR, maxDist int, inter bool, nMads float64) (*ContactMap, error) {
	rows, cols, err := preproc.DetectableBins(m, inter, nMads)
	if err != nil {
		return nil, err
	}
	return &ContactMap{
		M:              m,
		MaxDist:        maxDist,
		Inter:          inter,
		DetectableRows: rows,
		DetectableCols: cols,
	}, nil
}

// Detrend returns a copy of the map with the distance-law decay divided out.
// The detectable bins carry over unchanged: detectability is a coverage
// property of the raw contacts, not of the rescaled signal.
func (cm *ContactMap) Detrend() *ContactMap {
	out := *cm
	out.M = preproc.Detrend(cm.M)
	return &out
}

// Bins returns the matrix dimensions.
func (cm *ContactMap) Bins() (rows, cols int) {
	return cm.M.Dims()
}

// RowSet returns the detectable rows as a set for membership tests.
func (cm *ContactMap) RowSet() map[int]struct{} {
	return toSet(cm.DetectableRows)
}

// ColSet returns the detectable columns as a set for membership tests.
func (cm *ContactMap) ColSet() map[int]struct{} {
	return toSet(cm.DetectableCols)
}

func toSet(xs []int) map[int]struct{} {
	s := make(map[int]struct{}, len(xs))
	for _, x := range xs {
		s[x] = struct{}{}
	}
	return s
}

// Sum returns the total number of contacts in the map.
func (cm *ContactMap) Sum() float64 {
	total := 0.0
	cm.M.DoNonZero(func(i, j int, v float64) {
		total += v
	})
	return total
}

// WithMatrix returns a copy of the map pointing at a different matrix, for
// preprocessed variants that share the same bins.
func (cm *ContactMap) WithMatrix(m *sparse.CSR) *ContactMap {
	out := *cm
	out.M = m
	return &out
}
