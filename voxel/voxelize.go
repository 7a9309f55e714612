package voxel

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

var (
	// ErrInvalidStep is returned when the voxel edge length is not a finite
	// value greater than the machine epsilon of its type.
	ErrInvalidStep = errors.New("voxel: step must be finite and greater than machine epsilon")
	// ErrFaceIndex is returned when a face references a missing vertex.
	ErrFaceIndex = errors.New("voxel: face index out of range")
)

func checkStep[T Float](step T) error {
	if !(step > Epsilon[T]()) || math.IsInf(float64(step), 0) {
		return fmt.Errorf("%w: %v", ErrInvalidStep, step)
	}
	return nil
}

// VoxelizeTriangle returns the cells overlapped by tri. Cells are ordered by
// x, then y, then z. A triangle lying exactly in a grid plane is assigned to
// the cell opposite its normal.
func VoxelizeTriangle[T Float](tri Triangle[T], step T, opts ...Option) ([]Cell, error) {
	if err := checkStep(step); err != nil {
		return nil, err
	}
	return voxelizeTriangle(tri, step, newOptions(opts), 1)
}

func voxelizeTriangle[T Float](tri Triangle[T], step T, o options, orient float64) ([]Cell, error) {
	r, err := candidateRange(tri, step, o.padScale, orient)
	if err != nil {
		return nil, err
	}
	var cells []Cell
	// int64 counters so a range ending at MaxInt32 terminates
	for x := int64(r.Min[0]); x <= int64(r.Max[0]); x++ {
		for y := int64(r.Min[1]); y <= int64(r.Max[1]); y++ {
			hit := false
			for z := int64(r.Min[2]); z <= int64(r.Max[2]); z++ {
				c := Cell{int32(x), int32(y), int32(z)}
				if Intersects(tri, cellBox(c, step, o.padScale)) {
					cells = append(cells, c)
					hit = true
					continue
				}
				if hit && o.scan == ScanEarlyExit {
					break
				}
			}
		}
	}
	return cells, nil
}

// Voxelize builds the occupancy set of a triangle mesh. Faces index into
// vertices. Inputs are validated before any work starts; on error no set is
// returned.
//
// Faces lying exactly in a grid plane go to the cell on the inside of the
// mesh whichever way it is wound: a mesh with negative signed volume is
// treated as inward-wound.
func Voxelize[T Float](vertices [][3]T, faces [][3]int, step T, opts ...Option) (*Voxels[T], error) {
	if err := checkStep(step); err != nil {
		return nil, err
	}
	tris := make([]Triangle[T], len(faces))
	for i, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d of %d", ErrFaceIndex, i, idx, len(vertices))
			}
		}
		tris[i] = NewTriangle(vec(vertices[f[0]]), vec(vertices[f[1]]), vec(vertices[f[2]]))
	}

	o := newOptions(opts)
	orient := 1.0
	if signedVolume(tris) < 0 {
		orient = -1
	}
	results := make([][]Cell, len(tris))
	err := parallelFor(len(tris), o.workers, func(i int) error {
		cells, err := voxelizeTriangle(tris[i], step, o, orient)
		if err != nil {
			return fmt.Errorf("face %d: %w", i, err)
		}
		results[i] = cells
		return nil
	})
	if err != nil {
		return nil, err
	}

	v := newVoxels(step)
	for _, cells := range results {
		for _, c := range cells {
			v.cells[c] = struct{}{}
		}
	}
	return v, nil
}

// signedVolume returns six times the volume enclosed by tris, positive for
// outward winding. Points are taken relative to the first vertex so far-off
// meshes keep their precision.
func signedVolume[T Float](tris []Triangle[T]) float64 {
	if len(tris) == 0 {
		return 0
	}
	ref := tris[0].Points[0]
	rel := func(p Vec3[T]) [3]float64 {
		d := p.Sub(ref)
		return [3]float64{float64(d.X), float64(d.Y), float64(d.Z)}
	}
	var vol float64
	for _, t := range tris {
		a, b, c := rel(t.Points[0]), rel(t.Points[1]), rel(t.Points[2])
		vol += a[0]*(b[1]*c[2]-b[2]*c[1]) +
			a[1]*(b[2]*c[0]-b[0]*c[2]) +
			a[2]*(b[0]*c[1]-b[1]*c[0])
	}
	return vol
}

// parallelFor calls fn for every i in [0, n) on up to workers goroutines
// and returns the error of the lowest failing index.
func parallelFor(n, workers int, fn func(i int) error) error {
	errs := make([]error, n)
	parallelEach(n, workers, func(i int) {
		errs[i] = fn(i)
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// parallelEach calls fn for every i in [0, n) on up to workers goroutines.
// Indices are statically interleaved across workers.
func parallelEach(n, workers int, fn func(i int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i < n; i += workers {
				fn(i)
			}
		}(w)
	}
	wg.Wait()
}

func vec[T Float](p [3]T) Vec3[T] {
	return Vec3[T]{X: p[0], Y: p[1], Z: p[2]}
}
