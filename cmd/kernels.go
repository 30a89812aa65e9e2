package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Captaincapture/chromosight/internal/cmap"
	"github.com/Captaincapture/chromosight/internal/detect"
)

var (
	kernelsPattern string
	kernelsOut     string
)

// kernelsCmd represents the kernels command
var kernelsCmd = &cobra.Command{
	Use:   "kernels",
	Short: "List built-in pattern kernels or dump one to a file",
	Run: func(cmd *cobra.Command, args []string) {
		if kernelsPattern == "" {
			for _, name := range detect.PresetNames() {
				fmt.Println(name)
			}
			return
		}

		preset, err := detect.PresetByName(kernelsPattern)
		if err != nil {
			logrus.Fatal(err)
		}
		w := os.Stdout
		if kernelsOut != "" {
			f, err := os.Create(kernelsOut)
			if err != nil {
				logrus.Fatal(err)
			}
			defer f.Close()
			w = f
		}
		for _, k := range preset.Kernels {
			if err := cmap.WriteKernel(w, k); err != nil {
				logrus.Fatal(err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(kernelsCmd)

	kernelsCmd.Flags().StringVarP(&kernelsPattern, "pattern", "p", "", "pattern kind to dump (empty lists all kinds)")
	kernelsCmd.Flags().StringVarP(&kernelsOut, "out", "o", "", "output file (default stdout)")
}
