package detect

import (
	"sort"

	"github.com/james-bowman/sparse"

	"github.com/Captaincapture/chromosight/internal/preproc"
	"github.com/Captaincapture/chromosight/internal/smat"
)

// Pick selects one representative pixel per focus of highly correlated
// pixels. The candidate threshold is a robust statistic over the nonzero
// correlations: median + precision * MAD. Within each focus the pixel with
// the maximum correlation wins; ties go to the first such pixel in row-major
// order. Returns nil when no pixel clears the threshold: an empty map or a
// quiet pass is an expected condition, not an error.
func Pick(conv sparse.Sparser, precision float64, minFocusSize int) []Coord {
	data := smat.Data(conv)
	if len(data) == 0 {
		return nil
	}

	thres := preproc.Median(data) + precision*preproc.MAD(data)
	candidates := smat.Filter(conv, func(i, j int, v float64) bool {
		return v >= thres
	})
	if candidates.NNZ() == 0 {
		return nil
	}

	numFoci, labeled := LabelConnectedPixels(candidates, minFocusSize)
	if numFoci == 0 {
		return nil
	}

	// best pixel per focus, first-seen wins ties (row-major iteration)
	best := make(map[int]Coord)
	bestVal := make(map[int]float64)
	labeled.DoNonZero(func(i, j int, v float64) {
		focus := int(v)
		cv := conv.At(i, j)
		if prev, ok := bestVal[focus]; !ok || cv > prev {
			bestVal[focus] = cv
			best[focus] = Coord{i, j}
		}
	})

	foci := make([]int, 0, len(best))
	for f := range best {
		foci = append(foci, f)
	}
	sort.Ints(foci)

	out := make([]Coord, 0, len(foci))
	for _, f := range foci {
		out = append(out, best[f])
	}
	return out
}
