package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"github.com/Captaincapture/chromosight/internal/cmap"
	"github.com/Captaincapture/chromosight/internal/preproc"
)

var (
	subsampleMapPath string
	subsampleN       int
	subsampleOut     string
	subsampleSeed    uint64
)

// subsampleCmd represents the subsample command
var subsampleCmd = &cobra.Command{
	Use:   "subsample",
	Short: "Subsample a contact map down to a target number of contacts",
	Long: `Subsample a contact map down to a target number of contacts.

Useful to bring several Hi-C experiments to comparable sequencing depths
before comparing their detected patterns. Requesting more contacts than the
map contains is an error, never a silent clamp.`,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(subsampleMapPath)
		if err != nil {
			logrus.Fatal(err)
		}
		m, err := cmap.LoadBg2(f, 0)
		f.Close()
		if err != nil {
			logrus.Fatal(err)
		}

		seed := subsampleSeed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		sub, err := preproc.SubsampleContacts(m, subsampleN, rand.NewSource(seed))
		if err != nil {
			logrus.Fatal(err)
		}

		out, err := os.Create(subsampleOut)
		if err != nil {
			logrus.Fatal(err)
		}
		defer out.Close()
		if err := cmap.WriteBg2(out, sub); err != nil {
			logrus.Fatal(err)
		}
		logrus.WithField("contacts", subsampleN).Info("subsampled map written")
	},
}

func init() {
	rootCmd.AddCommand(subsampleCmd)

	subsampleCmd.Flags().StringVarP(&subsampleMapPath, "map", "m", "", "path to the contact map (bg2 text)")
	subsampleCmd.Flags().IntVarP(&subsampleN, "contacts", "n", 0, "target number of contacts")
	subsampleCmd.Flags().StringVarP(&subsampleOut, "out", "o", "subsampled.bg2", "output path")
	subsampleCmd.Flags().Uint64Var(&subsampleSeed, "seed", 0, "random seed (0 uses the clock)")

	subsampleCmd.MarkFlagRequired("map")
	subsampleCmd.MarkFlagRequired("contacts")
}
