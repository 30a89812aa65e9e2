package detect

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/Captaincapture/chromosight/config"
	"github.com/Captaincapture/chromosight/internal/cmap"
	"github.com/Captaincapture/chromosight/internal/preproc"
)

// normIterations is the balancing iteration count applied before detection.
const normIterations = 10

// Options are the inputs of a full detection run.
type Options struct {
	// MapPath is the contact map file (bg2 text)
	MapPath string

	// Pattern is the built-in pattern kind to look for
	Pattern string

	// KernelPath optionally replaces the preset's starting kernels with a
	// template loaded from a text file
	KernelPath string

	// OutDir receives patterns.csv and the per-pass pileup kernels
	OutDir string

	// KernelFactor rescales the starting kernels by the ratio of kernel
	// resolution to map resolution; 1 (or 0) leaves them untouched
	KernelFactor float64
}

// Run executes the whole pipeline on one contact map: load, preprocess,
// iterate detection, and write the pattern table plus the pileup kernels of
// each pass.
func Run(opts Options, conf *config.Config) error {
	preset, err := PresetByName(opts.Pattern)
	if err != nil {
		return err
	}
	params := mergeParams(preset, conf)

	kernels := preset.Kernels
	if opts.KernelPath != "" {
		f, err := os.Open(opts.KernelPath)
		if err != nil {
			return fmt.Errorf("opening kernel: %w", err)
		}
		kernel, err := cmap.LoadKernel(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("reading kernel %s: %w", opts.KernelPath, err)
		}
		kernels = []*mat.Dense{kernel}
	}
	if opts.KernelFactor > 0 && opts.KernelFactor != 1 {
		resized := make([]*mat.Dense, len(kernels))
		for i, k := range kernels {
			resized[i] = preproc.ResizeKernel(k, opts.KernelFactor, 3, 101)
		}
		kernels = resized
	}

	f, err := os.Open(opts.MapPath)
	if err != nil {
		return fmt.Errorf("opening contact map: %w", err)
	}
	raw, err := cmap.LoadBg2(f, 0)
	f.Close()
	if err != nil {
		return fmt.Errorf("reading contact map %s: %w", opts.MapPath, err)
	}

	// cap the scan distance where the mean contact value decays below half
	// the median signal; diagonals past that point only add noise
	if snr := preproc.SignalToNoiseThreshold(raw); snr < params.MaxDist {
		logrus.WithField("max-dist", snr).Info("scan distance capped by signal decay")
		params.MaxDist = snr
	}

	cm, err := cmap.New(raw, params.MaxDist, false, conf.NMads)
	if err != nil {
		return err
	}
	bins, _ := cm.Bins()
	logrus.WithFields(logrus.Fields{
		"bins":       bins,
		"contacts":   cm.Sum(),
		"detectable": len(cm.DetectableRows),
		"pattern":    preset.Name,
	}).Info("contact map loaded")

	// balance coverage, despeckle outliers, then flatten the distance decay
	// so the kernel correlates against local structure, not the diagonal
	// gradient
	balanced := preproc.Normalize(cm.M, cm.DetectableRows, normIterations)
	clean := preproc.Despeckle(balanced, conf.DespeckleThreshold)
	cm = cm.WithMatrix(clean).Detrend()

	res, err := Explore(cm, kernels, params)
	if err != nil {
		return err
	}
	final := RemoveSmears(res.Patterns, params.WinSize)
	logrus.WithFields(logrus.Fields{
		"state":    res.State.String(),
		"passes":   len(res.Counts),
		"patterns": len(final),
	}).Info("detection finished")

	return writeOutputs(opts.OutDir, final, res)
}

// mergeParams overlays non-zero configuration values on the preset
// defaults.
func mergeParams(preset Preset, conf *config.Config) Params {
	p := preset.Params()
	if conf.MaxDist > 0 {
		p.MaxDist = conf.MaxDist
	}
	if conf.Precision > 0 {
		p.Precision = conf.Precision
	}
	if conf.MaxPercUndetected > 0 {
		p.MaxPercUndetected = conf.MaxPercUndetected
	}
	if conf.MaxIterations > 0 {
		p.MaxIterations = conf.MaxIterations
	}
	if conf.WinSize > 0 {
		p.WinSize = conf.WinSize
	}
	if conf.MinFocusSize > 0 {
		p.MinFocusSize = conf.MinFocusSize
	}
	return p
}

// writeOutputs writes patterns.csv and one kernel file per pileup produced
// at each pass.
func writeOutputs(outDir string, patterns []Pattern, res *Result) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	pf, err := os.Create(filepath.Join(outDir, "patterns.csv"))
	if err != nil {
		return err
	}
	defer pf.Close()
	if err := WritePatterns(pf, patterns); err != nil {
		return err
	}

	for iteration, kernels := range res.Pileups {
		for k, kernel := range kernels {
			name := fmt.Sprintf("pileup_%d_%d.txt", iteration, k)
			kf, err := os.Create(filepath.Join(outDir, name))
			if err != nil {
				return err
			}
			if err := cmap.WriteKernel(kf, kernel); err != nil {
				kf.Close()
				return err
			}
			kf.Close()
		}
	}
	return nil
}
