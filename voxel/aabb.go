package voxel

// AABB represents an axis-aligned bounding box
type AABB[T Float] struct {
	Min Vec3[T]
	Max Vec3[T]
}

// NewAABB creates a box of the given size centered at center
func NewAABB[T Float](center, size Vec3[T]) AABB[T] {
	half := size.Mul(0.5)
	return AABB[T]{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

// BoundsOf returns the tight bounding box of the given points.
// It returns the zero box when no points are given.
func BoundsOf[T Float](points ...Vec3[T]) AABB[T] {
	if len(points) == 0 {
		return AABB[T]{}
	}
	b := AABB[T]{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Center returns the center point of the box
func (b AABB[T]) Center() Vec3[T] {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfSize returns half the dimensions of the box
func (b AABB[T]) HalfSize() Vec3[T] {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Size returns the dimensions of the box
func (b AABB[T]) Size() Vec3[T] {
	return b.Max.Sub(b.Min)
}

// Expand grows the box by pad on every side
func (b AABB[T]) Expand(pad T) AABB[T] {
	p := Splat(pad)
	return AABB[T]{Min: b.Min.Sub(p), Max: b.Max.Add(p)}
}

// Overlaps reports whether two closed boxes share at least one point
func (b AABB[T]) Overlaps(other AABB[T]) bool {
	return b.Max.X >= other.Min.X && b.Min.X <= other.Max.X &&
		b.Max.Y >= other.Min.Y && b.Min.Y <= other.Max.Y &&
		b.Max.Z >= other.Min.Z && b.Min.Z <= other.Max.Z
}

// Contains reports whether p lies inside the closed box
func (b AABB[T]) Contains(p Vec3[T]) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
