// Package shapes builds closed triangle meshes from signed distance
// functions. The meshes serve as voxelizer inputs with known volume.
package shapes

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/voxelsplace/meshvox/meshio"
)

// ErrUnknownKind is returned by Solid for names not in Kinds.
var ErrUnknownKind = errors.New("shapes: unknown kind")

// DefaultCells is the marching cubes resolution along the longest side.
const DefaultCells = 64

type builder func(size float64) (sdf.SDF3, error)

var builders = map[string]builder{
	"sphere": func(size float64) (sdf.SDF3, error) {
		return sdf.Sphere3D(size / 2)
	},
	"box": func(size float64) (sdf.SDF3, error) {
		return sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, 0)
	},
	"cylinder": func(size float64) (sdf.SDF3, error) {
		return sdf.Cylinder3D(size, size/2, 0)
	},
	"hollow-box": func(size float64) (sdf.SDF3, error) {
		outer, err := sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, 0)
		if err != nil {
			return nil, err
		}
		inner, err := sdf.Sphere3D(size * 0.4)
		if err != nil {
			return nil, err
		}
		return sdf.Difference3D(outer, inner), nil
	},
	"dumbbell": func(size float64) (sdf.SDF3, error) {
		r := size / 4
		bar, err := sdf.Cylinder3D(size-2*r, r/2, 0)
		if err != nil {
			return nil, err
		}
		ball, err := sdf.Sphere3D(r)
		if err != nil {
			return nil, err
		}
		top := sdf.Transform3D(ball, sdf.Translate3d(v3.Vec{Z: size/2 - r}))
		bottom := sdf.Transform3D(ball, sdf.Translate3d(v3.Vec{Z: r - size/2}))
		return sdf.Union3D(bar, top, bottom), nil
	},
}

// Kinds returns the names accepted by Solid, sorted.
func Kinds() []string {
	names := make([]string, 0, len(builders))
	for k := range builders {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func checkSize(size float64) error {
	if !(size > 0) || math.IsInf(size, 0) {
		return fmt.Errorf("invalid shape size %v", size)
	}
	return nil
}

// Solid returns the named solid, centered at the origin and fitting in a
// cube of side size.
func Solid(kind string, size float64) (sdf.SDF3, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	b, ok := builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	s, err := b(size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return s, nil
}

// Tessellate renders s with uniform marching cubes. cells <= 0 selects
// DefaultCells.
func Tessellate(name string, s sdf.SDF3, cells int) *meshio.Mesh {
	if cells <= 0 {
		cells = DefaultCells
	}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	m := meshio.NewMesh(name)
	for _, tri := range triangles {
		var p [3][3]float64
		for j := 0; j < 3; j++ {
			v := tri[j]
			p[j] = [3]float64{v.X, v.Y, v.Z}
		}
		m.AddTriangle(p[0], p[1], p[2])
	}
	return m
}

// Generate tessellates the named solid.
func Generate(kind string, size float64, cells int) (*meshio.Mesh, error) {
	s, err := Solid(kind, size)
	if err != nil {
		return nil, err
	}
	return Tessellate(kind, s, cells), nil
}

// Random returns a union of count spheres and boxes with centers and sizes
// drawn from r, all inside a cube of side size centered at the origin.
func Random(r *rand.Rand, count int, size float64) (sdf.SDF3, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if count < 1 {
		count = 1
	}
	parts := make([]sdf.SDF3, 0, count)
	for i := 0; i < count; i++ {
		// part extent in [size/8, size/3]
		extent := size/8 + r.Float64()*(size/3-size/8)
		limit := (size - extent) / 2
		center := v3.Vec{
			X: (2*r.Float64() - 1) * limit,
			Y: (2*r.Float64() - 1) * limit,
			Z: (2*r.Float64() - 1) * limit,
		}
		var (
			part sdf.SDF3
			err  error
		)
		if r.Intn(2) == 0 {
			part, err = sdf.Sphere3D(extent / 2)
		} else {
			part, err = sdf.Box3D(v3.Vec{X: extent, Y: extent, Z: extent}, 0)
		}
		if err != nil {
			return nil, err
		}
		parts = append(parts, sdf.Transform3D(part, sdf.Translate3d(center)))
	}
	return sdf.Union3D(parts...), nil
}
