package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Captaincapture/chromosight/config"
	"github.com/Captaincapture/chromosight/internal/detect"
)

var (
	detectMapPath      string
	detectPattern      string
	detectKernelPath   string
	detectOutDir       string
	detectKernelFactor float64
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect patterns in a Hi-C contact map",
	Long: `Detect patterns in a Hi-C contact map.

"chromosight detect" scans a sparse contact map for a built-in pattern kind
(loops or borders) by correlating it with a template kernel inside a band
around the diagonal. Candidate pixels above a robust correlation threshold
are grouped into foci, one representative per focus is validated against
coverage criteria, and the median pileup of validated windows becomes the
template of the next pass, until the detection count stabilizes.

Writes patterns.csv and the per-pass pileup kernels to the output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.New()
		opts := detect.Options{
			MapPath:      detectMapPath,
			Pattern:      detectPattern,
			KernelPath:   detectKernelPath,
			OutDir:       detectOutDir,
			KernelFactor: detectKernelFactor,
		}
		if err := detect.Run(opts, conf); err != nil {
			logrus.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().StringVarP(&detectMapPath, "map", "m", "", "path to the contact map (bg2 text: bin1 bin2 count)")
	detectCmd.Flags().StringVarP(&detectPattern, "pattern", "p", "loops", "pattern kind to detect (loops, borders)")
	detectCmd.Flags().StringVarP(&detectKernelPath, "kernel", "k", "", "optional custom kernel file overriding the preset templates")
	detectCmd.Flags().StringVarP(&detectOutDir, "out", "o", "chromosight_out", "output directory")
	detectCmd.Flags().Float64Var(&detectKernelFactor, "kernel-factor", 1, "kernel resolution / map resolution rescaling factor")

	detectCmd.Flags().Int("max-dist", 0, "scan bandwidth in bins from the diagonal")
	detectCmd.Flags().Float64("precision", 0, "MADs above the median correlation required of candidates")
	detectCmd.Flags().Float64("max-perc-undetected", 0, "percentage of missing pixels tolerated per window")
	detectCmd.Flags().Int("max-iterations", 0, "maximum number of detection passes")
	detectCmd.Flags().Int("win-size", 0, "deduplication bucket width in bins")
	detectCmd.Flags().Int("min-focus-size", 0, "minimum pixel count of a focus")
	detectCmd.Flags().Float64("n-mads", 5, "coverage tolerance for detectable bins")

	detectCmd.MarkFlagRequired("map")

	viper.BindPFlag("max-dist", detectCmd.Flags().Lookup("max-dist"))
	viper.BindPFlag("precision", detectCmd.Flags().Lookup("precision"))
	viper.BindPFlag("max-perc-undetected", detectCmd.Flags().Lookup("max-perc-undetected"))
	viper.BindPFlag("max-iterations", detectCmd.Flags().Lookup("max-iterations"))
	viper.BindPFlag("win-size", detectCmd.Flags().Lookup("win-size"))
	viper.BindPFlag("min-focus-size", detectCmd.Flags().Lookup("min-focus-size"))
	viper.BindPFlag("n-mads", detectCmd.Flags().Lookup("n-mads"))
}
