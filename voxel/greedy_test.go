package voxel

import (
	"math"
	"testing"
)

func TestGreedyMesh_SolidBox(t *testing.T) {
	verts, faces := boxMesh([3]float64{0.1, 0.1, 0.1}, [3]float64{2.1, 2.1, 2.1})
	v, err := Voxelize(verts, faces, 0.25)
	if err != nil {
		t.Fatalf("Voxelize failed: %v", err)
	}
	v.Fill()
	m := v.GreedyMesh()
	if m.TriangleCount() != 12 || len(m.Vertices) != 24 {
		t.Fatalf("got %d triangles and %d vertices, want 12 and 24", m.TriangleCount(), len(m.Vertices))
	}
	culled := v.ReconstructMesh()
	if math.Abs(m.Area()-culled.Area()) > 1e-9 {
		t.Fatalf("greedy area %v != culled area %v", m.Area(), culled.Area())
	}
	checkOutward(t, v, m)
}

func TestGreedyMesh_MatchesCulledSurface(t *testing.T) {
	verts, faces := pyramidMesh()
	v, err := Voxelize(verts, faces, 0.1)
	if err != nil {
		t.Fatalf("Voxelize failed: %v", err)
	}
	v.Fill()
	greedy := v.GreedyMesh()
	culled := v.ReconstructMesh()
	if greedy.TriangleCount() >= culled.TriangleCount() {
		t.Fatalf("greedy mesh has %d triangles, culled %d", greedy.TriangleCount(), culled.TriangleCount())
	}
	if math.Abs(greedy.Area()-culled.Area()) > 1e-9*culled.Area() {
		t.Fatalf("greedy area %v != culled area %v", greedy.Area(), culled.Area())
	}
	checkOutward(t, v, greedy)
}

func TestGreedyMesh_LShape(t *testing.T) {
	v, err := FromCells(1.0, []Cell{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	if err != nil {
		t.Fatalf("FromCells failed: %v", err)
	}
	m := v.GreedyMesh()
	// two rectangles for each of +X, +Y, +Z and -Z, one for -X and -Y
	if m.TriangleCount() != 2*(2+2+1+1+2+2) {
		t.Fatalf("got %d triangles", m.TriangleCount())
	}
	if math.Abs(m.Area()-14) > 1e-12 {
		t.Fatalf("area = %v, want 14", m.Area())
	}
	checkOutward(t, v, m)
}
