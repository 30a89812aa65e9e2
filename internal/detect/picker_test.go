package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Captaincapture/chromosight/internal/smat"
)

func Test_pick(t *testing.T) {
	// two adjacent strong pixels and one weak isolated pixel; with
	// precision 0 the threshold is the median, keeping only the pair
	conv := smat.FromTriplets(6, 6,
		[]int{1, 1, 4},
		[]int{2, 3, 5},
		[]float64{0.9, 0.85, 0.1},
	)

	coords := Pick(conv, 0, 2)

	require.Len(t, coords, 1)
	// the focus representative is its maximum pixel
	assert.Equal(t, Coord{1, 2}, coords[0])
}

func Test_pick_noCandidates(t *testing.T) {
	// all pixels far below the threshold: nil, not an empty slice
	conv := smat.FromTriplets(5, 5,
		[]int{0, 2},
		[]int{1, 3},
		[]float64{0.2, 0.9},
	)

	// precision high enough that nothing clears median + precision * MAD
	coords := Pick(conv, 100, 2)
	assert.Nil(t, coords)
}

func Test_pick_emptyMatrix(t *testing.T) {
	conv := smat.FromTriplets(5, 5, nil, nil, nil)
	assert.Nil(t, Pick(conv, 1, 2))
}

func Test_pick_onePerFocus(t *testing.T) {
	// two separate pairs of adjacent pixels over a weak background that
	// keeps the median low enough for both pairs to clear the threshold
	conv := smat.FromTriplets(10, 10,
		[]int{1, 1, 6, 6, 0, 3, 8, 4},
		[]int{2, 3, 7, 8, 9, 0, 2, 5},
		[]float64{0.8, 0.9, 0.95, 0.7, 0.1, 0.1, 0.1, 0.1},
	)

	coords := Pick(conv, 0, 2)

	require.Len(t, coords, 2)
	assert.Equal(t, Coord{1, 3}, coords[0])
	assert.Equal(t, Coord{6, 7}, coords[1])
}

func Test_pick_tieBreaksFirstRowMajor(t *testing.T) {
	// two equal maxima in one focus: the first in row-major order wins
	conv := smat.FromTriplets(4, 4,
		[]int{1, 1},
		[]int{1, 2},
		[]float64{0.9, 0.9},
	)

	coords := Pick(conv, 0, 2)

	require.Len(t, coords, 1)
	assert.Equal(t, Coord{1, 1}, coords[0])
}
