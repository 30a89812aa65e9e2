// Package config is for app wide detection settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config is the root-level settings struct, a mix of settings from the
// optional settings file and command line flags. Zero values mean "use the
// pattern preset's default".
type Config struct {
	// the scan bandwidth: maximum distance from the diagonal, in bins
	MaxDist int `mapstructure:"max-dist"`

	// number of MADs above the median correlation required of a candidate
	Precision float64 `mapstructure:"precision"`

	// percentage of missing pixels tolerated in a pattern window
	MaxPercUndetected float64 `mapstructure:"max-perc-undetected"`

	// maximum number of detection passes
	MaxIterations int `mapstructure:"max-iterations"`

	// deduplication bucket width, in bins
	WinSize int `mapstructure:"win-size"`

	// minimum number of pixels in a focus
	MinFocusSize int `mapstructure:"min-focus-size"`

	// coverage tolerance (in MADs below the median) when flagging
	// detectable bins
	NMads float64 `mapstructure:"n-mads"`

	// MAD multiplier above the diagonal median used to despeckle outliers
	DespeckleThreshold float64 `mapstructure:"despeckle-threshold"`
}

// New returns a new Config struct populated by Viper settings, either from
// the local settings file and/or command line arguments.
func New() *Config {
	viper.SetDefault("n-mads", 5.0)
	viper.SetDefault("despeckle-threshold", 3.0)

	c := &Config{}
	if err := viper.Unmarshal(c); err != nil {
		log.Fatalf("unable to decode settings, %v", err)
	}
	return c
}
