package preproc

import (
	"github.com/james-bowman/sparse"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Captaincapture/chromosight/internal/smat"
)

// SubsampleContacts thins a contact matrix down to approximately n contacts
// by drawing a binomial count for each nonzero entry, with success
// probability n / total. Sampling more contacts than the matrix holds is a
// range violation, not a clamp: downstream statistics would silently break
// on a clamped matrix.
func SubsampleContacts(m sparse.Sparser, n int, src rand.Source) (*sparse.CSR, error) {
	total := 0.0
	m.DoNonZero(func(i, j int, v float64) {
		total += v
	})
	if float64(n) > total {
		return nil, ErrOversampling
	}
	if total == 0 {
		r, c := m.Dims()
		return smat.FromTriplets(r, c, nil, nil, nil), nil
	}

	p := float64(n) / total
	return smat.Map(m, func(i, j int, v float64) float64 {
		b := distuv.Binomial{N: v, P: p, Src: src}
		return b.Rand()
	}), nil
}
