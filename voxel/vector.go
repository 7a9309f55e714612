package voxel

import "math"

// Float is the set of real types the voxelizer is generic over.
type Float interface {
	float32 | float64
}

// Epsilon returns the machine epsilon of T.
func Epsilon[T Float]() T {
	var zero T
	switch any(zero).(type) {
	case float32:
		return T(0x1p-23)
	default:
		return T(0x1p-52)
	}
}

// Vec3 represents a 3D point or vector
type Vec3[T Float] struct {
	X, Y, Z T
}

// NewVec3 creates a new 3D vector
func NewVec3[T Float](x, y, z T) Vec3[T] {
	return Vec3[T]{X: x, Y: y, Z: z}
}

// Splat returns a vector with all components set to s
func Splat[T Float](s T) Vec3[T] {
	return Vec3[T]{X: s, Y: s, Z: s}
}

// XAxis returns the unit vector along X
func XAxis[T Float]() Vec3[T] { return Vec3[T]{X: 1} }

// YAxis returns the unit vector along Y
func YAxis[T Float]() Vec3[T] { return Vec3[T]{Y: 1} }

// ZAxis returns the unit vector along Z
func ZAxis[T Float]() Vec3[T] { return Vec3[T]{Z: 1} }

// Axis returns the unit vector of axis i (0=X, 1=Y, 2=Z)
func Axis[T Float](i int) Vec3[T] {
	var v Vec3[T]
	v.set(i, 1)
	return v
}

// Add returns the sum of two vectors
func (v Vec3[T]) Add(other Vec3[T]) Vec3[T] {
	return Vec3[T]{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub returns the difference between two vectors
func (v Vec3[T]) Sub(other Vec3[T]) Vec3[T] {
	return Vec3[T]{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Mul multiplies the vector by a scalar
func (v Vec3[T]) Mul(scalar T) Vec3[T] {
	return Vec3[T]{
		X: v.X * scalar,
		Y: v.Y * scalar,
		Z: v.Z * scalar,
	}
}

// Div divides the vector by a scalar
func (v Vec3[T]) Div(scalar T) Vec3[T] {
	return Vec3[T]{
		X: v.X / scalar,
		Y: v.Y / scalar,
		Z: v.Z / scalar,
	}
}

// Dot returns the dot product of two vectors
func (v Vec3[T]) Dot(other Vec3[T]) T {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3[T]) Cross(other Vec3[T]) Vec3[T] {
	return Vec3[T]{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Abs returns the componentwise absolute value
func (v Vec3[T]) Abs() Vec3[T] {
	return Vec3[T]{X: abs(v.X), Y: abs(v.Y), Z: abs(v.Z)}
}

// Length returns the magnitude of the vector
func (v Vec3[T]) Length() T {
	return T(math.Sqrt(float64(v.Dot(v))))
}

// Min returns a vector with the minimum components of two vectors
func (v Vec3[T]) Min(other Vec3[T]) Vec3[T] {
	return Vec3[T]{
		X: min(v.X, other.X),
		Y: min(v.Y, other.Y),
		Z: min(v.Z, other.Z),
	}
}

// Max returns a vector with the maximum components of two vectors
func (v Vec3[T]) Max(other Vec3[T]) Vec3[T] {
	return Vec3[T]{
		X: max(v.X, other.X),
		Y: max(v.Y, other.Y),
		Z: max(v.Z, other.Z),
	}
}

// MaxAbs returns the largest absolute component
func (v Vec3[T]) MaxAbs() T {
	a := v.Abs()
	return max(a.X, a.Y, a.Z)
}

// Component returns component i (0=X, 1=Y, 2=Z)
func (v Vec3[T]) Component(i int) T {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Array returns the vector as a plain array
func (v Vec3[T]) Array() [3]T {
	return [3]T{v.X, v.Y, v.Z}
}

func (v *Vec3[T]) set(i int, s T) {
	switch i {
	case 0:
		v.X = s
	case 1:
		v.Y = s
	default:
		v.Z = s
	}
}

func abs[T Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
