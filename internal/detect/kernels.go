package detect

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Preset bundles a pattern kind with its template kernels and detection
// defaults. The distance bounds are the pattern's filtering predicate: loops
// live off-diagonal, borders sit on it. Dispatch over pattern kinds is
// data-driven; there is a single detection code path.
type Preset struct {
	// Name of the pattern kind
	Name string

	// Kernels are the starting templates for the first pass
	Kernels []*mat.Dense

	// MinDist and MaxDist bound the distance from the diagonal, in bins, at
	// which this pattern is biologically meaningful
	MinDist int
	MaxDist int

	// Detection defaults, overridable from configuration
	Precision         float64
	MaxPercUndetected float64
	MaxIterations     int
	WinSize           int
	MinFocusSize      int
}

// presets is the closed set of built-in pattern kinds.
var presets = map[string]Preset{
	"loops": {
		Name:              "loops",
		Kernels:           []*mat.Dense{loopKernel(9, 1.5)},
		MinDist:           5,
		MaxDist:           200,
		Precision:         4,
		MaxPercUndetected: 10,
		MaxIterations:     3,
		WinSize:           4,
		MinFocusSize:      2,
	},
	"borders": {
		Name:              "borders",
		Kernels:           []*mat.Dense{borderKernel(9)},
		MinDist:           1,
		MaxDist:           30,
		Precision:         1.5,
		MaxPercUndetected: 30,
		MaxIterations:     3,
		WinSize:           4,
		MinFocusSize:      2,
	},
}

// PresetByName returns the preset for a pattern kind.
func PresetByName(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return p, nil
}

// PresetNames lists the built-in pattern kinds, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Params returns the preset's detection defaults as loop parameters.
func (p Preset) Params() Params {
	return Params{
		MaxDist:           p.MaxDist,
		MinDist:           p.MinDist,
		Precision:         p.Precision,
		MaxPercUndetected: p.MaxPercUndetected,
		MaxIterations:     p.MaxIterations,
		WinSize:           p.WinSize,
		MinFocusSize:      p.MinFocusSize,
	}
}

// loopKernel builds the loop template: a centered gaussian bump over a faint
// background, the footprint of a focal contact enrichment.
func loopKernel(size int, sigma float64) *mat.Dense {
	k := mat.NewDense(size, size, nil)
	c := float64(size / 2)
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			di := float64(i) - c
			dj := float64(j) - c
			v := 0.1 + math.Exp(-(di*di+dj*dj)/(2*sigma*sigma))
			k.Set(i, j, v)
		}
	}
	return k
}

// borderKernel builds the domain border template: contacts are enriched
// inside the two domains flanking the border (upper-left and lower-right
// quadrants) and depleted across it.
func borderKernel(size int) *mat.Dense {
	k := mat.NewDense(size, size, nil)
	c := size / 2
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			switch {
			case i < c && j < c, i > c && j > c:
				k.Set(i, j, 1)
			case i == c || j == c:
				k.Set(i, j, 0.5)
			default:
				k.Set(i, j, 0.1)
			}
		}
	}
	return k
}
