// Package cmd is for command line interactions with the chromosight
// application
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "chromosight",
	Short: `Detect chromatin loops and domain borders in Hi-C contact maps.
Patterns are found by sparse template matching, refined iteratively from the
median pileup of previous detections`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen once
// to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("%v", err)
	}
}
