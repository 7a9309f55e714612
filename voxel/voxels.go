package voxel

import (
	"cmp"
	"encoding/binary"
	"math"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Voxels is a sparse occupancy set of grid cells with edge length step.
type Voxels[T Float] struct {
	cells map[Cell]struct{}
	step  T
}

func newVoxels[T Float](step T) *Voxels[T] {
	return &Voxels[T]{cells: make(map[Cell]struct{}), step: step}
}

// New returns an empty set.
func New[T Float](step T) (*Voxels[T], error) {
	if err := checkStep(step); err != nil {
		return nil, err
	}
	return newVoxels(step), nil
}

// FromCells returns a set holding the given cells. Duplicates collapse.
func FromCells[T Float](step T, cells []Cell) (*Voxels[T], error) {
	v, err := New(step)
	if err != nil {
		return nil, err
	}
	for _, c := range cells {
		v.cells[c] = struct{}{}
	}
	return v, nil
}

// Step returns the voxel edge length.
func (v *Voxels[T]) Step() T { return v.step }

// Len returns the number of occupied cells.
func (v *Voxels[T]) Len() int { return len(v.cells) }

// Contains reports whether c is occupied.
func (v *Voxels[T]) Contains(c Cell) bool {
	_, ok := v.cells[c]
	return ok
}

// Cells returns the occupied cells sorted by x, then y, then z.
func (v *Voxels[T]) Cells() []Cell {
	out := make([]Cell, 0, len(v.cells))
	for c := range v.cells {
		out = append(out, c)
	}
	slices.SortFunc(out, compareCells)
	return out
}

func compareCells(a, b Cell) int {
	if c := cmp.Compare(a[0], b[0]); c != 0 {
		return c
	}
	if c := cmp.Compare(a[1], b[1]); c != 0 {
		return c
	}
	return cmp.Compare(a[2], b[2])
}

// Bounds returns the componentwise minimum and maximum occupied cell.
// ok is false for an empty set.
func (v *Voxels[T]) Bounds() (lo, hi Cell, ok bool) {
	first := true
	for c := range v.cells {
		if first {
			lo, hi, first = c, c, false
			continue
		}
		for i := 0; i < 3; i++ {
			lo[i] = min(lo[i], c[i])
			hi[i] = max(hi[i], c[i])
		}
	}
	return lo, hi, !first
}

// Equal reports whether both sets have the same step and cells.
func (v *Voxels[T]) Equal(other *Voxels[T]) bool {
	if v.step != other.step || len(v.cells) != len(other.cells) {
		return false
	}
	for c := range v.cells {
		if _, ok := other.cells[c]; !ok {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (v *Voxels[T]) Clone() *Voxels[T] {
	out := newVoxels(v.step)
	for c := range v.cells {
		out.cells[c] = struct{}{}
	}
	return out
}

// Volume returns the occupied volume, Len * step^3.
func (v *Voxels[T]) Volume() T {
	return T(len(v.cells)) * v.step * v.step * v.step
}

// Fingerprint returns an xxhash64 digest of the step and the sorted cells.
// Equal sets have equal fingerprints.
func (v *Voxels[T]) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [12]byte
	binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(float64(v.step)))
	d.Write(buf[:8])
	for _, c := range v.Cells() {
		binary.LittleEndian.PutUint32(buf[0:], uint32(c[0]))
		binary.LittleEndian.PutUint32(buf[4:], uint32(c[1]))
		binary.LittleEndian.PutUint32(buf[8:], uint32(c[2]))
		d.Write(buf[:])
	}
	return d.Sum64()
}
