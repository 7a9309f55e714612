package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Job is one conversion of a batch file. Unset fields fall back to the
// batch defaults.
type Job struct {
	Input       string   `toml:"input" yaml:"input"`
	Output      string   `toml:"output" yaml:"output"`
	Step        *float64 `toml:"step" yaml:"step"`
	Fill        *bool    `toml:"fill" yaml:"fill"`
	Greedy      *bool    `toml:"greedy" yaml:"greedy"`
	Workers     *int     `toml:"workers" yaml:"workers"`
	EarlyExit   *bool    `toml:"early_exit" yaml:"early_exit"`
	Compression *string  `toml:"compression" yaml:"compression"`
}

// Batch is a job file, TOML:
//
//	[defaults]
//	step = 0.5
//	fill = true
//
//	[[job]]
//	input = "part.stl"
//	output = "part.vxs"
//
// or the same keys in YAML (.yaml, .yml).
type Batch struct {
	Defaults Config `toml:"defaults" yaml:"defaults"`
	Jobs     []Job  `toml:"job" yaml:"job"`
}

// Config returns the job's settings layered over defaults.
func (j Job) Config(defaults Config) Config {
	c := defaults
	if j.Step != nil {
		c.Step = *j.Step
	}
	if j.Fill != nil {
		c.Fill = *j.Fill
	}
	if j.Greedy != nil {
		c.Greedy = *j.Greedy
	}
	if j.Workers != nil {
		c.Workers = *j.Workers
	}
	if j.EarlyExit != nil {
		c.EarlyExit = *j.EarlyExit
	}
	if j.Compression != nil {
		c.Compression = *j.Compression
	}
	return c
}

// LoadBatch decodes a batch file, YAML for .yaml/.yml and TOML otherwise.
// Relative paths are resolved against the file's directory; unknown keys
// are rejected.
func LoadBatch(path string) (*Batch, error) {
	b := &Batch{Defaults: DefaultConfig()}
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAMLBatch(path, b)
	default:
		err = decodeTOMLBatch(path, b)
	}
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i := range b.Jobs {
		j := &b.Jobs[i]
		if j.Input == "" || j.Output == "" {
			return nil, fmt.Errorf("%s: job %d needs input and output", path, i)
		}
		if !filepath.IsAbs(j.Input) {
			j.Input = filepath.Join(dir, j.Input)
		}
		if !filepath.IsAbs(j.Output) {
			j.Output = filepath.Join(dir, j.Output)
		}
		if err := j.Config(b.Defaults).Validate(); err != nil {
			return nil, fmt.Errorf("%s: job %d: %w", path, i, err)
		}
	}
	return b, nil
}

func decodeTOMLBatch(path string, b *Batch) error {
	md, err := toml.DecodeFile(path, b)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAMLBatch(path string, b *Batch) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// an empty document leaves the defaults in place
	if err := dec.Decode(b); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// RunBatch runs every job in order. A failing job does not stop the batch;
// all failures are returned joined. Cancelling ctx stops before the next
// job.
func RunBatch(ctx context.Context, b *Batch) error {
	var errs []error
	for i, j := range b.Jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		log.Printf("job %d/%d: %s -> %s", i+1, len(b.Jobs), j.Input, j.Output)
		if err := Convert(j.Input, j.Output, j.Config(b.Defaults)); err != nil {
			errs = append(errs, fmt.Errorf("job %d (%s): %w", i, j.Input, err))
		}
	}
	return errors.Join(errs...)
}
