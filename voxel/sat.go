package voxel

// Triangle/box overlap after Tomas Akenine-Möller, "Fast 3D Triangle-Box
// Overlap Testing". All comparisons are non-strict: touching counts.

// Intersects reports whether the triangle and the closed box overlap.
func Intersects[T Float](tri Triangle[T], box AABB[T]) bool {
	// box face normals: cheap, and exact for zero-area triangles
	if !tri.Bounds.Overlaps(box) {
		return false
	}
	if !planeBoxOverlap(tri, box) {
		return false
	}
	return edgeAxesOverlap(tri, box)
}

// planeBoxOverlap tests the triangle's supporting plane against the box.
func planeBoxOverlap[T Float](tri Triangle[T], box AABB[T]) bool {
	normal := tri.Normal()
	d := -normal.Dot(tri.Points[0])
	c := box.Center()
	h := box.HalfSize()
	e := h.Dot(normal.Abs())
	s := normal.Dot(c) + d
	return !(s-e > 0 || s+e < 0)
}

// edgeAxesOverlap tests the nine axes e_i x f_j, box axes crossed with
// triangle edges. A degenerate axis projects everything to zero and never
// separates.
func edgeAxesOverlap[T Float](tri Triangle[T], box AABB[T]) bool {
	c := box.Center()
	h := box.HalfSize()
	v := [3]Vec3[T]{
		tri.Points[0].Sub(c),
		tri.Points[1].Sub(c),
		tri.Points[2].Sub(c),
	}
	f := [3]Vec3[T]{v[1].Sub(v[0]), v[2].Sub(v[1]), v[0].Sub(v[2])}
	for i := 0; i < 3; i++ {
		e := Axis[T](i)
		for j := 0; j < 3; j++ {
			a := e.Cross(f[j])
			p0 := a.Dot(v[0])
			p1 := a.Dot(v[1])
			p2 := a.Dot(v[2])
			r := h.Dot(a.Abs())
			if min(p0, p1, p2) > r || max(p0, p1, p2) < -r {
				return false
			}
		}
	}
	return true
}
