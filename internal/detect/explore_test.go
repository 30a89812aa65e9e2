package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/Captaincapture/chromosight/internal/cmap"
	"github.com/Captaincapture/chromosight/internal/smat"
)

// blobMap builds a 40x40 upper-triangle map containing two copies of a
// small loop template, centered on (10, 30) and (18, 35).
func blobMap(t *testing.T) *cmap.ContactMap {
	t.Helper()

	tmpl := loopKernel(3, 1.0)
	var rows, cols []int
	var data []float64
	for _, center := range [][2]int{{10, 30}, {18, 35}} {
		for di := -1; di <= 1; di++ {
			for dj := -1; dj <= 1; dj++ {
				rows = append(rows, center[0]+di)
				cols = append(cols, center[1]+dj)
				data = append(data, 2*tmpl.At(di+1, dj+1))
			}
		}
	}
	m := smat.FromTriplets(40, 40, rows, cols, data)

	cm, err := cmap.New(m, 0, false, 5.0)
	require.NoError(t, err)
	return cm
}

func Test_explore(t *testing.T) {
	cm := blobMap(t)
	p := Params{
		MaxDist:           100,
		MinDist:           0,
		Precision:         0,
		MaxPercUndetected: 10,
		MaxIterations:     3,
		WinSize:           4,
		MinFocusSize:      2,
	}

	res, err := Explore(cm, []*mat.Dense{loopKernel(3, 1.0)}, p)
	require.NoError(t, err)

	// both planted loci found on the first pass, the second pass matched
	// with the refined kernel finds the same two, so the loop converges
	assert.Equal(t, StateConverged, res.State)
	assert.Equal(t, []int{2, 2}, res.Counts)

	require.Len(t, res.Patterns, 2)
	assert.Equal(t, 10, res.Patterns[0].Bin1)
	assert.Equal(t, 30, res.Patterns[0].Bin2)
	assert.Equal(t, 18, res.Patterns[1].Bin1)
	assert.Equal(t, 35, res.Patterns[1].Bin2)

	// each completed pass piled its windows into one refined kernel
	require.Len(t, res.Pileups[1], 1)
	require.Len(t, res.Pileups[2], 1)
	pr, pc := res.Pileups[1][0].Dims()
	assert.Equal(t, 3, pr)
	assert.Equal(t, 3, pc)
}

func Test_explore_budgetExhausted(t *testing.T) {
	cm := blobMap(t)
	p := Params{
		MaxDist:           100,
		MinDist:           0,
		Precision:         0,
		MaxPercUndetected: 10,
		MaxIterations:     1,
		WinSize:           4,
		MinFocusSize:      2,
	}

	res, err := Explore(cm, []*mat.Dense{loopKernel(3, 1.0)}, p)
	require.NoError(t, err)

	// a one-pass budget runs out before the count can stabilize; the
	// result still carries everything the pass accumulated
	assert.Equal(t, StateExhausted, res.State)
	assert.Equal(t, []int{2}, res.Counts)
	require.Len(t, res.Patterns, 2)
	require.Len(t, res.Pileups[1], 1)
}

func Test_explore_kernelLargerThanMap(t *testing.T) {
	// a 9x9 kernel cannot scan a 5x5 map; the run converges empty instead
	// of failing
	m := smat.FromTriplets(5, 5,
		[]int{0, 1, 2}, []int{1, 2, 3}, []float64{1, 2, 1},
	)
	cm, err := cmap.New(m, 0, false, 5.0)
	require.NoError(t, err)

	res, err := Explore(cm, []*mat.Dense{loopKernel(9, 1.5)}, Params{
		MaxDist:       100,
		MaxIterations: 3,
		WinSize:       4,
	})
	require.NoError(t, err)

	assert.Equal(t, StateConverged, res.State)
	assert.Empty(t, res.Patterns)
	assert.Equal(t, []int{0}, res.Counts)
}

func Test_removeSmears(t *testing.T) {
	patterns := []Pattern{
		{Bin1: 10, Bin2: 30, Score: 0.5},
		{Bin1: 11, Bin2: 30, Score: 0.9},
		{Bin1: 25, Bin2: 40, Score: 0.7},
	}

	out := RemoveSmears(patterns, 4)

	// the first two share a bucket; the higher score survives and input
	// order is kept
	require.Len(t, out, 2)
	assert.Equal(t, Pattern{Bin1: 11, Bin2: 30, Score: 0.9}, out[0])
	assert.Equal(t, Pattern{Bin1: 25, Bin2: 40, Score: 0.7}, out[1])
}

func Test_removeSmears_empty(t *testing.T) {
	assert.Empty(t, RemoveSmears(nil, 4))
}

func Test_pileup(t *testing.T) {
	windows := []*mat.Dense{
		mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		mat.NewDense(2, 2, []float64{5, 0, 1, 2}),
	}

	pile := Pileup(windows)
	require.NotNil(t, pile)

	// elementwise median of two windows is their mean
	assert.Equal(t, 3.0, pile.At(0, 0))
	assert.Equal(t, 1.0, pile.At(0, 1))
	assert.Equal(t, 2.0, pile.At(1, 0))
	assert.Equal(t, 3.0, pile.At(1, 1))
}

func Test_pileup_empty(t *testing.T) {
	assert.Nil(t, Pileup(nil))
}
