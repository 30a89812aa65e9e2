package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Captaincapture/chromosight/internal/smat"
)

// Labeling the candidate matrix
//
//	1 0 0 0
//	1 0 1 0
//	1 0 1 1
//	0 0 0 0
//
// must find two foci with the column pixels labeled 1 and the corner group
// labeled 2.
func Test_labelConnectedPixels(t *testing.T) {
	m := smat.FromTriplets(4, 4,
		[]int{0, 1, 1, 2, 2, 2},
		[]int{0, 0, 2, 0, 2, 3},
		[]float64{1, 1, 1, 1, 1, 1},
	)

	numFoci, labeled := LabelConnectedPixels(m, 2)

	require.Equal(t, 2, numFoci)

	want := [][]float64{
		{1, 0, 0, 0},
		{1, 0, 2, 0},
		{1, 0, 2, 2},
		{0, 0, 0, 0},
	}
	for i := range want {
		for j := range want[i] {
			assert.Equal(t, want[i][j], labeled.At(i, j), "label at (%d,%d)", i, j)
		}
	}
}

func Test_labelConnectedPixels_smallFociDropped(t *testing.T) {
	// a 2-pixel focus and an isolated pixel far away
	m := smat.FromTriplets(6, 6,
		[]int{0, 0, 4},
		[]int{0, 1, 4},
		[]float64{1, 1, 1},
	)

	// without a size floor both foci survive
	numAll, _ := LabelConnectedPixels(m, 1)
	require.Equal(t, 2, numAll)

	// the singleton is noise once the floor applies
	numFiltered, labeled := LabelConnectedPixels(m, 2)
	require.Equal(t, 1, numFiltered)
	assert.Equal(t, 0.0, labeled.At(4, 4))
	assert.Equal(t, 1.0, labeled.At(0, 0))

	// focus monotonicity: filtering never increases the count
	assert.LessOrEqual(t, numFiltered, numAll)
}

func Test_labelConnectedPixels_idempotent(t *testing.T) {
	m := smat.FromTriplets(5, 5,
		[]int{0, 0, 2, 3, 3, 0},
		[]int{0, 1, 2, 2, 3, 4},
		[]float64{1, 1, 1, 1, 1, 1},
	)

	numFoci, labeled := LabelConnectedPixels(m, 2)

	// relabeling the filtered output finds the same foci
	again, _ := LabelConnectedPixels(labeled, 2)
	assert.Equal(t, numFoci, again)
}

func Test_labelConnectedPixels_empty(t *testing.T) {
	m := smat.FromTriplets(3, 3, nil, nil, nil)

	numFoci, labeled := LabelConnectedPixels(m, 2)

	assert.Equal(t, 0, numFoci)
	assert.Equal(t, 0, labeled.NNZ())
}

func Test_labelConnectedPixels_diagonalAdjacency(t *testing.T) {
	// two pixels touching only at a corner belong to one focus
	m := smat.FromTriplets(4, 4,
		[]int{0, 1},
		[]int{0, 1},
		[]float64{1, 1},
	)

	numFoci, _ := LabelConnectedPixels(m, 2)
	assert.Equal(t, 1, numFoci)
}
