package voxel

import (
	"math/rand"
	"testing"
)

func unitBox() AABB[float64] {
	return AABB[float64]{Max: Splat(1.0)}
}

func TestIntersects(t *testing.T) {
	tests := []struct {
		name string
		tri  Triangle[float64]
		want bool
	}{
		{
			name: "inside",
			tri:  NewTriangle(NewVec3(0.2, 0.2, 0.5), NewVec3(0.8, 0.2, 0.5), NewVec3(0.5, 0.8, 0.5)),
			want: true,
		},
		{
			name: "crossing",
			tri:  NewTriangle(NewVec3(-1.0, -1.0, 0.5), NewVec3(3.0, -1.0, 0.5), NewVec3(-1.0, 3.0, 0.5)),
			want: true,
		},
		{
			name: "touching face",
			tri:  NewTriangle(NewVec3(1.0, 0.0, 0.0), NewVec3(1.0, 1.0, 0.0), NewVec3(1.0, 1.0, 1.0)),
			want: true,
		},
		{
			name: "touching corner",
			tri:  NewTriangle(NewVec3(1.0, 1.0, 1.0), NewVec3(2.0, 1.0, 1.0), NewVec3(1.0, 2.0, 1.0)),
			want: true,
		},
		{
			name: "separated by box face",
			tri:  NewTriangle(NewVec3(1.5, 0.0, 0.0), NewVec3(1.5, 1.0, 0.0), NewVec3(1.5, 1.0, 1.0)),
			want: false,
		},
		{
			name: "separated by plane",
			tri:  NewTriangle(NewVec3(2.0, 0.0, 0.0), NewVec3(0.0, 2.0, 0.0), NewVec3(0.0, 0.0, 2.0)).shifted(NewVec3(1.0, 1.0, 1.0)),
			want: false,
		},
		{
			// bounds overlap and the plane cuts the box, only an edge axis separates
			name: "separated by edge axis",
			tri:  NewTriangle(NewVec3(0.8, -0.5, 0.5), NewVec3(1.5, 0.2, 0.5), NewVec3(1.5, -0.5, 0.5)),
			want: false,
		},
		{
			name: "degenerate segment through box",
			tri:  NewTriangle(NewVec3(-1.0, 0.5, 0.5), NewVec3(2.0, 0.5, 0.5), NewVec3(0.5, 0.5, 0.5)),
			want: true,
		},
		{
			name: "degenerate point outside",
			tri:  NewTriangle(NewVec3(1.5, 0.5, 0.5), NewVec3(1.5, 0.5, 0.5), NewVec3(1.5, 0.5, 0.5)),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Intersects(tt.tri, unitBox()); got != tt.want {
				t.Fatalf("Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func (t Triangle[T]) shifted(d Vec3[T]) Triangle[T] {
	return NewTriangle(t.Points[0].Add(d), t.Points[1].Add(d), t.Points[2].Add(d))
}

func TestIntersects_MatchesClipping(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	box := unitBox()
	for i := 0; i < 5000; i++ {
		tri := randomTriangle(rng, 2).shifted(Splat(0.5))
		got := Intersects(tri, box)
		if got && !clipOverlaps(tri, box, 1e-9) {
			t.Fatalf("triangle %d %v: Intersects=true but clipping finds no overlap", i, tri.Points)
		}
		if !got && clipOverlaps(tri, box, -1e-9) {
			t.Fatalf("triangle %d %v: Intersects=false but clipping finds an overlap", i, tri.Points)
		}
	}
}

func TestIntersects_Float32(t *testing.T) {
	tri := NewTriangle(NewVec3[float32](0, 0, 1), NewVec3[float32](1, 0, 1), NewVec3[float32](0, 1, 1))
	box := AABB[float32]{Max: Splat[float32](1)}
	if !Intersects(tri, box) {
		t.Fatalf("triangle on the top face must intersect")
	}
	if Intersects(tri.shifted(NewVec3[float32](0, 0, 0.01)), box) {
		t.Fatalf("triangle above the box must not intersect")
	}
}
