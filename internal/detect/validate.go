package detect

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Pattern is one validated detection: a canonicalized coordinate pair
// (Bin1 <= Bin2) and the correlation score at that pixel.
type Pattern struct {
	Bin1  int
	Bin2  int
	Score float64
}

// Distance returns the pattern's distance from the main diagonal in bins.
func (p Pattern) Distance() int {
	return p.Bin2 - p.Bin1
}

// ValidatePatterns filters picked coordinates against data-quality criteria
// and extracts the window of raw contacts around each survivor. A candidate
// is dropped when its window would cross the matrix bounds, or when the
// window's missing pixels reach maxUndetectedPct percent of its area.
// Missing pixels are estimated two ways, and the worse estimate wins: the
// undetectable-bin area by inclusion-exclusion (bad rows x width + bad cols
// x height - bad x bad), and the observed count of zero-valued pixels.
//
// Survivors keep their input order; windows are stacked aligned with the
// returned patterns and always have the kernel's shape.
func ValidatePatterns(
	coords []Coord,
	m sparse.Sparser,
	conv sparse.Sparser,
	detRows, detCols map[int]struct{},
	kh, kw int,
	maxUndetectedPct float64,
) ([]Pattern, []*mat.Dense) {
	sm, sn := m.Dims()
	halfH := kh/2 + 1
	halfW := kw/2 + 1

	var patterns []Pattern
	var windows []*mat.Dense
	for _, coord := range coords {
		p1, p2 := coord.Row, coord.Col
		if p1 > p2 {
			p1, p2 = p2, p1
		}

		// out of bounds windows are always rejected, score notwithstanding
		if p1-halfH < 0 || p1+halfH+1 >= sm || p2-halfW < 0 || p2+halfW+1 >= sn {
			continue
		}

		top := p1 - halfH + 1
		left := p2 - halfW + 1
		win := mat.NewDense(kh, kw, nil)
		zeros := 0
		for i := 0; i < kh; i++ {
			for j := 0; j < kw; j++ {
				v := m.At(top+i, left+j)
				win.Set(i, j, v)
				if v == 0 {
					zeros++
				}
			}
		}

		badRows := 0
		for i := 0; i < kh; i++ {
			if _, ok := detRows[top+i]; !ok {
				badRows++
			}
		}
		badCols := 0
		for j := 0; j < kw; j++ {
			if _, ok := detCols[left+j]; !ok {
				badCols++
			}
		}

		undetected := badRows*kw + badCols*kh - badRows*badCols
		missing := undetected
		if zeros > missing {
			missing = zeros
		}

		total := kh * kw
		if float64(missing)/float64(total) >= maxUndetectedPct/100 {
			continue
		}

		patterns = append(patterns, Pattern{
			Bin1:  p1,
			Bin2:  p2,
			Score: conv.At(p1, p2),
		})
		windows = append(windows, win)
	}
	return patterns, windows
}
