// Package config is for app wide detection settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestConfig_New(t *testing.T) {
	viper.Reset()
	viper.Set("max-dist", 120)
	viper.Set("precision", 4.5)
	viper.Set("max-perc-undetected", 15.0)
	viper.Set("max-iterations", 5)

	c := New()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"max-dist", c.MaxDist, 120},
		{"precision", c.Precision, 4.5},
		{"max-perc-undetected", c.MaxPercUndetected, 15.0},
		{"max-iterations", c.MaxIterations, 5},
		{"n-mads default", c.NMads, 5.0},
		{"despeckle default", c.DespeckleThreshold, 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("Config.%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}
