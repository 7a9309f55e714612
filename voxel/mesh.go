package voxel

import "math"

// Mesh is an indexed triangle list. Every three indices form a triangle
// wound counter-clockwise when seen from outside.
type Mesh[T Float] struct {
	Vertices [][3]T
	Indices  []uint32
}

// TriangleCount returns the number of triangles.
func (m *Mesh[T]) TriangleCount() int { return len(m.Indices) / 3 }

// Triangle returns the i-th triangle.
func (m *Mesh[T]) Triangle(i int) Triangle[T] {
	return NewTriangle(
		vec(m.Vertices[m.Indices[3*i]]),
		vec(m.Vertices[m.Indices[3*i+1]]),
		vec(m.Vertices[m.Indices[3*i+2]]),
	)
}

// Area returns the total surface area.
func (m *Mesh[T]) Area() T {
	var a T
	for i := 0; i < m.TriangleCount(); i++ {
		a += m.Triangle(i).Area()
	}
	return a
}

// dirSpec describes one of the six face directions. Quads span du along the
// first in-plane axis u and dv along the second axis v.
type dirSpec struct {
	axis   int
	sign   int32
	u, v   int
	du, dv [3]int64
}

var directions = [6]dirSpec{
	{0, +1, 1, 2, [3]int64{0, 1, 0}, [3]int64{0, 0, 1}},
	{0, -1, 1, 2, [3]int64{0, 1, 0}, [3]int64{0, 0, 1}},
	{1, +1, 0, 2, [3]int64{1, 0, 0}, [3]int64{0, 0, 1}},
	{1, -1, 0, 2, [3]int64{1, 0, 0}, [3]int64{0, 0, 1}},
	{2, +1, 0, 1, [3]int64{1, 0, 0}, [3]int64{0, 1, 0}},
	{2, -1, 0, 1, [3]int64{1, 0, 0}, [3]int64{0, 1, 0}},
}

// exposed reports whether the face of c in direction d has no occupied
// neighbor behind it.
func (v *Voxels[T]) exposed(c Cell, d dirSpec) bool {
	if (d.sign > 0 && c[d.axis] == math.MaxInt32) || (d.sign < 0 && c[d.axis] == math.MinInt32) {
		return true
	}
	return !v.Contains(c.Neighbor(d.axis, d.sign))
}

// quadCorners returns the grid corners of a face rectangle with minimum cell
// start, h cells along u and w cells along v, ordered so that (0,1,2) and
// (0,2,3) face outward.
func quadCorners(d dirSpec, start Cell, w, h int64) [4][3]int64 {
	var base [3]int64
	for i := 0; i < 3; i++ {
		base[i] = int64(start[i])
	}
	if d.sign > 0 {
		base[d.axis]++
	}
	var q [4][3]int64
	for i := 0; i < 3; i++ {
		q[0][i] = base[i]
		q[1][i] = base[i] + d.du[i]*h
		q[2][i] = base[i] + d.du[i]*h + d.dv[i]*w
		q[3][i] = base[i] + d.dv[i]*w
	}
	// u x v points along +axis for X and Z, along -axis for Y
	if (d.sign < 0) != (d.axis == 1) {
		q[1], q[3] = q[3], q[1]
	}
	return q
}

func (v *Voxels[T]) world(p [3]int64) [3]T {
	return [3]T{T(p[0]) * v.step, T(p[1]) * v.step, T(p[2]) * v.step}
}

// ReconstructMesh returns the face-culled surface of the set: for every cell,
// in sorted order, each of the six faces whose neighbor is empty becomes two
// triangles. Vertices are not shared; the mesh has six vertices per face and
// indices 0..n-1.
func (v *Voxels[T]) ReconstructMesh() *Mesh[T] {
	m := &Mesh[T]{}
	for _, c := range v.Cells() {
		for _, d := range directions {
			if !v.exposed(c, d) {
				continue
			}
			q := quadCorners(d, c, 1, 1)
			for _, k := range [6]int{0, 1, 2, 0, 2, 3} {
				m.Indices = append(m.Indices, uint32(len(m.Vertices)))
				m.Vertices = append(m.Vertices, v.world(q[k]))
			}
		}
	}
	return m
}

// PointCloud returns the minimum corner of every cell, in sorted order.
func (v *Voxels[T]) PointCloud() [][3]T {
	cells := v.Cells()
	out := make([][3]T, len(cells))
	for i, c := range cells {
		out[i] = v.world([3]int64{int64(c[0]), int64(c[1]), int64(c[2])})
	}
	return out
}

// Centers returns the center of every cell, in sorted order.
func (v *Voxels[T]) Centers() [][3]T {
	cells := v.Cells()
	out := make([][3]T, len(cells))
	for i, c := range cells {
		for j := 0; j < 3; j++ {
			out[i][j] = (T(c[j]) + 0.5) * v.step
		}
	}
	return out
}
