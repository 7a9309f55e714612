package voxel

import (
	"math"
	"math/rand"
)

// boxMesh returns a closed box with outward winding. Vertex i sits at the
// corner selected by the bits of i (x=1, y=2, z=4).
func boxMesh(lo, hi [3]float64) ([][3]float64, [][3]int) {
	verts := make([][3]float64, 8)
	for i := range verts {
		for a := 0; a < 3; a++ {
			if i&(1<<a) != 0 {
				verts[i][a] = hi[a]
			} else {
				verts[i][a] = lo[a]
			}
		}
	}
	faces := [][3]int{
		{1, 3, 7}, {1, 7, 5}, // +X
		{0, 4, 6}, {0, 6, 2}, // -X
		{2, 6, 7}, {2, 7, 3}, // +Y
		{0, 1, 5}, {0, 5, 4}, // -Y
		{4, 5, 7}, {4, 7, 6}, // +Z
		{0, 2, 3}, {0, 3, 1}, // -Z
	}
	return verts, faces
}

// pyramidMesh is a square pyramid with apex (0,0,1) over the base
// |x|+|y| <= 1, wound inward.
func pyramidMesh() ([][3]float64, [][3]int) {
	verts := [][3]float64{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 0},
		{-1, 0, 0},
		{0, -1, 0},
	}
	faces := [][3]int{
		{0, 2, 1},
		{0, 1, 4},
		{0, 4, 3},
		{0, 3, 2},
		{2, 3, 4},
		{2, 4, 1},
	}
	return verts, faces
}

// flipFaces reverses the winding of every face.
func flipFaces(faces [][3]int) [][3]int {
	out := make([][3]int, len(faces))
	for i, f := range faces {
		out[i] = [3]int{f[0], f[2], f[1]}
	}
	return out
}

func meshArea(verts [][3]float64, faces [][3]int) float64 {
	var a float64
	for _, f := range faces {
		a += NewTriangle(vec(verts[f[0]]), vec(verts[f[1]]), vec(verts[f[2]])).Area()
	}
	return a
}

func randomTriangle(rng *rand.Rand, scale float64) Triangle[float64] {
	p := func() Vec3[float64] {
		return NewVec3(
			(rng.Float64()*2-1)*scale,
			(rng.Float64()*2-1)*scale,
			(rng.Float64()*2-1)*scale,
		)
	}
	return NewTriangle(p(), p(), p())
}

// clipOverlaps is an independent overlap reference: it clips the triangle
// against the box grown by slack (shrunk for negative slack) and reports
// whether anything is left.
func clipOverlaps(tri Triangle[float64], box AABB[float64], slack float64) bool {
	poly := []Vec3[float64]{tri.Points[0], tri.Points[1], tri.Points[2]}
	for axis := 0; axis < 3; axis++ {
		lo := box.Min.Component(axis) - slack
		hi := box.Max.Component(axis) + slack
		poly = clipPlane(poly, axis, lo, 1)
		poly = clipPlane(poly, axis, hi, -1)
		if len(poly) == 0 {
			return false
		}
	}
	return true
}

// clipPlane keeps the part of poly where sign*(p[axis]-bound) >= 0.
func clipPlane(poly []Vec3[float64], axis int, bound, sign float64) []Vec3[float64] {
	var out []Vec3[float64]
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		da := sign * (a.Component(axis) - bound)
		db := sign * (b.Component(axis) - bound)
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			t := da / (da - db)
			out = append(out, a.Add(b.Sub(a).Mul(t)))
		}
	}
	return out
}

func floorInt32(f float64) int32 {
	return int32(math.Floor(f))
}
