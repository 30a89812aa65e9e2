package detect

import (
	"gonum.org/v1/gonum/mat"

	"github.com/Captaincapture/chromosight/internal/preproc"
)

// Pileup aggregates a stack of equally shaped pattern windows into a single
// template by taking the elementwise median. The median, unlike the mean,
// keeps one saturated window from dominating the refined kernel. Returns nil
// for an empty stack.
func Pileup(windows []*mat.Dense) *mat.Dense {
	if len(windows) == 0 {
		return nil
	}
	r, c := windows[0].Dims()
	out := mat.NewDense(r, c, nil)
	stack := make([]float64, len(windows))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			for k, w := range windows {
				stack[k] = w.At(i, j)
			}
			out.Set(i, j, preproc.Median(stack))
		}
	}
	return out
}
