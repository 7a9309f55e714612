package voxel

import "runtime"

// ScanMode selects how candidate cells of a triangle are scanned.
type ScanMode int

const (
	// ScanExhaustive tests every candidate cell.
	ScanExhaustive ScanMode = iota
	// ScanEarlyExit stops scanning a z column once a run of hits has ended.
	// Hits along a column are contiguous for any triangle, so results match
	// ScanExhaustive; it is kept opt-in and checked against it in tests.
	ScanEarlyExit
)

func (m ScanMode) String() string {
	switch m {
	case ScanExhaustive:
		return "exhaustive"
	case ScanEarlyExit:
		return "early-exit"
	default:
		return "unknown"
	}
}

// DefaultPaddingScale is the number of machine epsilons (relative to the
// coordinate magnitude) each candidate cell is padded by.
const DefaultPaddingScale = 10

type options struct {
	workers  int
	scan     ScanMode
	padScale float64
}

// Option configures Voxelize, VoxelizeTriangle and Fill.
type Option func(*options)

// WithWorkers sets the number of goroutines used for per-triangle work and
// fill sweeps. n <= 0 means GOMAXPROCS. The default is 1.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithScanMode selects the candidate scan strategy.
func WithScanMode(m ScanMode) Option {
	return func(o *options) { o.scan = m }
}

// WithPaddingScale overrides DefaultPaddingScale. Non-positive values are ignored.
func WithPaddingScale(scale float64) Option {
	return func(o *options) {
		if scale > 0 {
			o.padScale = scale
		}
	}
}

func newOptions(opts []Option) options {
	o := options{workers: 1, scan: ScanExhaustive, padScale: DefaultPaddingScale}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
