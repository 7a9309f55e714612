package voxel

// Triangle is a mesh face together with its tight bounding box.
type Triangle[T Float] struct {
	Points [3]Vec3[T]
	Bounds AABB[T]
}

// NewTriangle creates a triangle and precomputes its bounds
func NewTriangle[T Float](p0, p1, p2 Vec3[T]) Triangle[T] {
	return Triangle[T]{
		Points: [3]Vec3[T]{p0, p1, p2},
		Bounds: BoundsOf(p0, p1, p2),
	}
}

// Normal returns the unnormalized face normal (p1-p0) x (p2-p0).
// Its direction follows the winding order; it is zero for degenerate triangles.
func (t Triangle[T]) Normal() Vec3[T] {
	return t.Points[1].Sub(t.Points[0]).Cross(t.Points[2].Sub(t.Points[0]))
}

// Area returns the surface area of the triangle
func (t Triangle[T]) Area() T {
	return t.Normal().Length() / 2
}
