package detect

import (
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/Captaincapture/chromosight/internal/cmap"
)

// State is the terminal condition of the iterative detection loop.
type State int

const (
	// StateConverged means the pattern count stabilized between passes.
	StateConverged State = iota

	// StateExhausted means the iteration budget ran out first.
	StateExhausted
)

func (s State) String() string {
	if s == StateConverged {
		return "converged"
	}
	return "exhausted"
}

// Params are the knobs of one detection run.
type Params struct {
	// MaxDist is the scan bandwidth in bins from the diagonal; negative
	// scans the whole matrix
	MaxDist int

	// MinDist discards patterns closer than this to the diagonal
	MinDist int

	// Precision is the number of MADs above the median correlation required
	// of a candidate pixel
	Precision float64

	// MaxPercUndetected is the tolerated percentage of missing pixels in a
	// pattern window
	MaxPercUndetected float64

	// MaxIterations bounds the number of detection passes
	MaxIterations int

	// WinSize is the deduplication bucket width: detections whose
	// coordinates land in the same (row/WinSize, col/WinSize) bucket count
	// as one pattern
	WinSize int

	// MinFocusSize is the minimum pixel count of a focus
	MinFocusSize int
}

// Result is the outcome of an iterative detection run.
type Result struct {
	// Patterns is the accumulated, deduplicated pattern set
	Patterns []Pattern

	// Pileups maps each iteration to the pileup kernels it produced, which
	// were used as templates by the following pass
	Pileups map[int][]*mat.Dense

	// Counts is the number of validated patterns found at each pass
	Counts []int

	// State says whether the loop converged or ran out of budget
	State State
}

// PatternDetector runs one matching pass over a contact map with a single
// kernel: correlate, pick, validate. Returns nil patterns (without error)
// when the matrix is too small for the kernel or no pixel clears the
// threshold; tiny chromosomes and quiet passes are expected.
func PatternDetector(cm *cmap.ContactMap, kernel *mat.Dense, p Params) ([]Pattern, []*mat.Dense, error) {
	km, kw := kernel.Dims()
	sm, _ := cm.Bins()
	if km >= sm {
		return nil, nil, nil
	}

	maxDist := p.MaxDist
	if cm.MaxDist > 0 && (maxDist < 0 || cm.MaxDist < maxDist) {
		maxDist = cm.MaxDist
	}
	if cm.Inter {
		maxDist = -1
	}

	conv, err := Corrcoef2D(cm.M, kernel, maxDist, !cm.Inter)
	if err != nil {
		return nil, nil, err
	}

	coords := Pick(conv, p.Precision, p.MinFocusSize)
	if coords == nil {
		return nil, nil, nil
	}

	patterns, windows := ValidatePatterns(
		coords, cm.M, conv, cm.RowSet(), cm.ColSet(), km, kw, p.MaxPercUndetected,
	)
	return patterns, windows, nil
}

// Explore detects patterns over repeated passes: each pass matches the
// current kernel set, then the median pileup of the validated windows
// becomes the next pass's kernel. The loop stops when the per-pass pattern
// count stabilizes (converged) or the iteration budget runs out
// (exhausted); both outcomes carry the same result shape. Detections are
// deduplicated across passes by spatial bucket, first seen wins, so one
// locus smeared over neighbouring pixels is counted once.
func Explore(cm *cmap.ContactMap, kernels []*mat.Dense, p Params) (*Result, error) {
	if p.WinSize < 1 {
		p.WinSize = 1
	}
	res := &Result{
		Pileups: make(map[int][]*mat.Dense),
		State:   StateExhausted,
	}

	seen := make(map[Coord]struct{})
	current := kernels
	oldCount, curCount := -1, 0

	for i := 1; i <= p.MaxIterations; i++ {
		if oldCount == curCount {
			res.State = StateConverged
			logrus.WithFields(logrus.Fields{
				"iteration": i,
				"patterns":  len(res.Patterns),
			}).Info("pattern count stable, stopping")
			break
		}
		oldCount = curCount

		passCount := 0
		var nextKernels []*mat.Dense
		for _, kernel := range current {
			patterns, windows, err := PatternDetector(cm, kernel, p)
			if err != nil {
				return nil, err
			}
			for _, pat := range patterns {
				if d := pat.Distance(); d < p.MinDist || (p.MaxDist >= 0 && d > p.MaxDist) {
					continue
				}
				bucket := Coord{pat.Bin1 / p.WinSize, pat.Bin2 / p.WinSize}
				if _, dup := seen[bucket]; dup {
					continue
				}
				seen[bucket] = struct{}{}
				res.Patterns = append(res.Patterns, pat)
			}
			passCount += len(patterns)
			if pile := Pileup(windows); pile != nil {
				nextKernels = append(nextKernels, pile)
			}
		}

		res.Pileups[i] = nextKernels
		res.Counts = append(res.Counts, passCount)
		curCount = passCount

		logrus.WithFields(logrus.Fields{
			"iteration": i,
			"found":     passCount,
			"total":     len(res.Patterns),
		}).Info("detection pass done")

		// a pass with no validated window contributes no new kernel; keep
		// matching with the previous set
		if len(nextKernels) > 0 {
			current = nextKernels
		}
	}

	return res, nil
}

// RemoveSmears keeps, for every spatial bucket, only the best scoring
// pattern. Patterns smearing over adjacent pixels can be detected several
// times at slightly different coordinates; this collapses each smear to its
// strongest detection while preserving input order.
func RemoveSmears(patterns []Pattern, winSize int) []Pattern {
	best := make(map[Coord]int)
	for idx, p := range patterns {
		bucket := Coord{p.Bin1 / winSize, p.Bin2 / winSize}
		if prev, ok := best[bucket]; !ok || p.Score > patterns[prev].Score {
			best[bucket] = idx
		}
	}
	keep := make(map[int]bool, len(best))
	for _, idx := range best {
		keep[idx] = true
	}
	out := make([]Pattern, 0, len(best))
	for idx, p := range patterns {
		if keep[idx] {
			out = append(out, p)
		}
	}
	return out
}
