package utils

import (
	"fmt"
	"math"

	"github.com/voxelsplace/meshvox/voxel"
	"github.com/voxelsplace/meshvox/voxfile"
)

// Config holds the conversion settings shared by the CLI, batch jobs and
// the watcher.
type Config struct {
	Step        float64 `toml:"step" yaml:"step"`
	Fill        bool    `toml:"fill" yaml:"fill"`
	Greedy      bool    `toml:"greedy" yaml:"greedy"`
	Workers     int     `toml:"workers" yaml:"workers"`
	EarlyExit   bool    `toml:"early_exit" yaml:"early_exit"`
	Compression string  `toml:"compression" yaml:"compression"`
}

// DefaultConfig returns the settings used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Step:        1,
		Workers:     1,
		Compression: "auto",
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !(c.Step > 0) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("step must be a positive finite number, got %v", c.Step)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if _, err := voxfile.ParseCompression(c.Compression); err != nil {
		return err
	}
	return nil
}

func (c Config) voxelOptions() []voxel.Option {
	// zero workers means one per CPU
	opts := []voxel.Option{voxel.WithWorkers(c.Workers)}
	if c.EarlyExit {
		opts = append(opts, voxel.WithScanMode(voxel.ScanEarlyExit))
	}
	return opts
}

func (c Config) compression() voxfile.Compression {
	comp, err := voxfile.ParseCompression(c.Compression)
	if err != nil {
		return voxfile.CompAuto
	}
	return comp
}
