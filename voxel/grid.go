package voxel

import (
	"errors"
	"fmt"
	"math"
)

// ErrCoordinateOverflow is returned when a world coordinate does not map to
// an int32 grid coordinate.
var ErrCoordinateOverflow = errors.New("voxel: grid coordinate overflow")

// Cell addresses the cube [c*step, (c+1)*step] on each axis (minimum-corner
// addressing).
type Cell [3]int32

// Neighbor returns the adjacent cell along axis in direction dir (+1 or -1).
func (c Cell) Neighbor(axis int, dir int32) Cell {
	c[axis] += dir
	return c
}

// GridRange is an inclusive range of cells.
type GridRange struct {
	Min, Max Cell
}

// Empty reports whether the range contains no cell.
func (r GridRange) Empty() bool {
	return r.Min[0] > r.Max[0] || r.Min[1] > r.Max[1] || r.Min[2] > r.Max[2]
}

// Count returns the number of cells in the range.
func (r GridRange) Count() int64 {
	if r.Empty() {
		return 0
	}
	n := int64(1)
	for i := 0; i < 3; i++ {
		n *= int64(r.Max[i]) - int64(r.Min[i]) + 1
	}
	return n
}

// GridBounds maps the triangle's bounds onto the grid: both corners are
// divided by step and floored, and the range is padded by one cell in the
// increasing direction.
func GridBounds[T Float](tri Triangle[T], step T) (GridRange, error) {
	var r GridRange
	for axis := 0; axis < 3; axis++ {
		lo, err := floorCell(float64(tri.Bounds.Min.Component(axis)) / float64(step))
		if err != nil {
			return GridRange{}, err
		}
		hi, err := floorCell(float64(tri.Bounds.Max.Component(axis))/float64(step) + 1)
		if err != nil {
			return GridRange{}, err
		}
		r.Min[axis], r.Max[axis] = lo, hi
	}
	return r, nil
}

// candidateRange returns the cells the triangle may own. On every axis where
// the triangle has extent, cells touching it only at the extreme boundary
// are excluded. A triangle lying in a grid plane belongs to the cell behind
// it (opposite its normal times orient), which can sit one cell below
// GridBounds. orient is -1 for faces of an inward-wound mesh, else 1.
func candidateRange[T Float](tri Triangle[T], step T, padScale, orient float64) (GridRange, error) {
	bounds, err := GridBounds(tri, step)
	if err != nil {
		return GridRange{}, err
	}
	normal := tri.Normal()
	s := float64(step)
	eps := float64(Epsilon[T]())
	var r GridRange
	for axis := 0; axis < 3; axis++ {
		a := float64(tri.Bounds.Min.Component(axis))
		b := float64(tri.Bounds.Max.Component(axis))
		tol := padScale * eps * max(1, math.Abs(a), math.Abs(b))
		lo, hi, err := ownedRange(a, b, orient*float64(normal.Component(axis)), s, tol)
		if err != nil {
			return GridRange{}, err
		}
		r.Min[axis] = int32(max(int64(lo), int64(bounds.Min[axis])-1))
		r.Max[axis] = min(hi, bounds.Max[axis])
	}
	return r, nil
}

func ownedRange(a, b, normal, step, tol float64) (int32, int32, error) {
	if b-a > 2*tol {
		lo, err := floorCell((a + tol) / step)
		if err != nil {
			return 0, 0, err
		}
		hi, err := floorCell(math.Ceil((b-tol)/step) - 1)
		if err != nil {
			return 0, 0, err
		}
		return lo, hi, nil
	}
	c := (a + b) / 2
	k := math.Round(c / step)
	if math.Abs(c-k*step) > tol {
		cell, err := floorCell(c / step)
		return cell, cell, err
	}
	if normal > 0 {
		k--
	}
	cell, err := floorCell(k)
	return cell, cell, err
}

func floorCell(f float64) (int32, error) {
	f = math.Floor(f)
	if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v", ErrCoordinateOverflow, f)
	}
	return int32(f), nil
}

// cellBox returns the world box of c, padded by padScale machine epsilons
// scaled to the coordinate magnitude.
func cellBox[T Float](c Cell, step T, padScale float64) AABB[T] {
	lo := NewVec3(T(c[0]), T(c[1]), T(c[2])).Mul(step)
	hi := lo.Add(Splat(step))
	pad := T(padScale) * Epsilon[T]() * max(1, lo.MaxAbs(), hi.MaxAbs())
	return AABB[T]{Min: lo, Max: hi}.Expand(pad)
}
